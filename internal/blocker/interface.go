// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"

	"github.com/juju/ddosblock/core/firewall"
)

// FirewallAPI is the network-layer firewall admin of a single project.
type FirewallAPI interface {
	// Firewalls returns every firewall rule of the project, in the order
	// the provider lists them.
	Firewalls(ctx context.Context) ([]firewall.Rule, error)

	// AddFirewall creates a new firewall rule.
	AddFirewall(ctx context.Context, rule firewall.Rule) error

	// UpdateFirewall replaces the named rule with rule.
	UpdateFirewall(ctx context.Context, name string, rule firewall.Rule) error
}

// IngressAPI is the application-layer ingress firewall admin of a single
// application.
type IngressAPI interface {
	// IngressRules returns the application's ingress rules in evaluation
	// order.
	IngressRules(ctx context.Context) ([]firewall.IngressRule, error)

	// CreateIngressRule adds rule to the application's ingress rules.
	CreateIngressRule(ctx context.Context, rule firewall.IngressRule) error
}

// Logger is the subset of loggo.Logger used by the blocker.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warningf(string, ...interface{})
	Errorf(string, ...interface{})
}
