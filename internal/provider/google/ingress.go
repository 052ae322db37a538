// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"context"

	"github.com/juju/errors"
	"google.golang.org/api/appengine/v1"

	"github.com/juju/ddosblock/core/firewall"
)

// IngressRules returns the App Engine ingress rules of the project's
// application, in evaluation order, following pagination.
func (c *Connection) IngressRules(ctx context.Context) ([]firewall.IngressRule, error) {
	call := c.appengine.Apps.Firewall.IngressRules.List(c.projectID).
		Context(ctx)
	var results []firewall.IngressRule
	err := call.Pages(ctx, func(page *appengine.ListIngressRulesResponse) error {
		for _, item := range page.IngressRules {
			results = append(results, fromAppEngineRule(item))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}

// CreateIngressRule adds rule to the application's ingress rules.
func (c *Connection) CreateIngressRule(ctx context.Context, rule firewall.IngressRule) error {
	call := c.appengine.Apps.Firewall.IngressRules.Create(c.projectID, &appengine.FirewallRule{
		Priority:    rule.Priority,
		Action:      rule.Action,
		SourceRange: rule.SourceRange,
		Description: rule.Description,
	}).Context(ctx)
	if _, err := call.Do(); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func fromAppEngineRule(rule *appengine.FirewallRule) firewall.IngressRule {
	return firewall.IngressRule{
		Priority:    rule.Priority,
		Action:      rule.Action,
		SourceRange: rule.SourceRange,
		Description: rule.Description,
	}
}
