// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/ddosblock/core/firewall"
)

// blockCompute adds ip to the reserved network-layer rule, creating the rule
// if the project does not have it yet.
func (b *Blocker) blockCompute(ctx context.Context, ip string) (firewall.Result, error) {
	rules, err := b.config.Firewalls.Firewalls(ctx)
	if err != nil {
		return firewall.Result{}, newProviderError("list firewalls", errors.Trace(err))
	}

	existing, found := firewall.LocateRule(rules, b.config.RuleName)
	if !found {
		return b.createRule(ctx, ip)
	}
	return b.updateRule(ctx, ip, existing)
}

func (b *Blocker) createRule(ctx context.Context, ip string) (firewall.Result, error) {
	blockIP := firewall.HostCIDR(ip)
	rule := firewall.NewBlockRule(b.config.RuleName, b.config.Network, b.config.RuleDescription, blockIP)

	b.config.Logger.Debugf("creating firewall %q blocking %s", rule.Name, blockIP)
	if err := b.config.Firewalls.AddFirewall(ctx, rule); err != nil {
		return firewall.Result{}, newProviderError("insert firewall", errors.Annotatef(err, "creating firewall %q", rule.Name))
	}
	return firewall.Result{
		RuleName:    rule.Name,
		SourceRange: blockIP,
		Priority:    rule.Priority,
		Change:      firewall.Created,
	}, nil
}

func (b *Blocker) updateRule(ctx context.Context, ip string, existing firewall.Rule) (firewall.Result, error) {
	blockIP := firewall.HostCIDR(ip)
	result := firewall.Result{
		RuleName:    existing.Name,
		SourceRange: blockIP,
		Priority:    existing.Priority,
		Change:      firewall.Unchanged,
	}
	if existing.HasSourceRange(blockIP) {
		b.config.Logger.Debugf("firewall %q already blocks %s", existing.Name, blockIP)
		return result, nil
	}

	// The whole rule is resubmitted; a concurrent update made since the
	// list call is overwritten.
	rule := existing.WithSourceRange(blockIP)
	b.config.Logger.Debugf("updating firewall %q to block %s (%d source ranges)", rule.Name, blockIP, len(rule.SourceRanges))
	if err := b.config.Firewalls.UpdateFirewall(ctx, rule.Name, rule); err != nil {
		return firewall.Result{}, newProviderError("update firewall", errors.Annotatef(err, "updating firewall %q", rule.Name))
	}
	result.Change = firewall.Updated
	return result, nil
}
