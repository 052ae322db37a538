// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/ddosblock/core/firewall"
)

// blockAppEngine appends a deny rule for ip to the application's ingress
// rules. Existing rules are not searched for the address: every call adds
// a rule.
func (b *Blocker) blockAppEngine(ctx context.Context, ip string) (firewall.Result, error) {
	rules, err := b.config.Ingress.IngressRules(ctx)
	if err != nil {
		return firewall.Result{}, newProviderError("list ingress rules", errors.Trace(err))
	}

	priority := firewall.NextIngressPriority(rules, b.config.PriorityPolicy)
	sourceRange := firewall.IngressSourceRange(ip, b.config.NormalizeSourceRanges)
	rule := firewall.NewDenyIngressRule(priority, sourceRange, b.config.IngressDescription)

	b.config.Logger.Debugf("creating ingress rule at priority %d denying %s", priority, sourceRange)
	if err := b.config.Ingress.CreateIngressRule(ctx, rule); err != nil {
		return firewall.Result{}, newProviderError("create ingress rule", errors.Annotatef(err, "creating ingress rule at priority %d", priority))
	}
	return firewall.Result{
		SourceRange: sourceRange,
		Priority:    priority,
		Change:      firewall.Created,
	}, nil
}
