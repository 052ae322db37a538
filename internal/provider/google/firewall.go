// Copyright 2014 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"google.golang.org/api/compute/v1"

	"github.com/juju/ddosblock/core/firewall"
)

const (
	// NetworkPathRoot is the path of the project's global networks.
	NetworkPathRoot = "global/networks/"
)

// Firewalls returns every firewall rule of the project, following
// pagination, in the order the API lists them.
func (c *Connection) Firewalls(ctx context.Context) ([]firewall.Rule, error) {
	call := c.compute.Firewalls.List(c.projectID).
		Context(ctx)
	var results []firewall.Rule
	err := call.Pages(ctx, func(page *compute.FirewallList) error {
		for _, item := range page.Items {
			results = append(results, fromComputeFirewall(item))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}

// AddFirewall adds a new firewall to the project and waits for the
// insert operation to finish.
func (c *Connection) AddFirewall(ctx context.Context, rule firewall.Rule) error {
	call := c.compute.Firewalls.Insert(c.projectID, c.toComputeFirewall(rule)).
		Context(ctx)
	operation, err := call.Do()
	if err != nil {
		return errors.Trace(err)
	}
	err = c.waitOperation(ctx, operation)
	return errors.Trace(err)
}

// UpdateFirewall replaces the named firewall with rule and waits for the
// update operation to finish.
func (c *Connection) UpdateFirewall(ctx context.Context, name string, rule firewall.Rule) error {
	call := c.compute.Firewalls.Update(c.projectID, name, c.toComputeFirewall(rule)).
		Context(ctx)
	operation, err := call.Do()
	if err != nil {
		return errors.Trace(err)
	}
	err = c.waitOperation(ctx, operation)
	return errors.Trace(err)
}

// networkPath returns the partial URL of the named network. A network that
// is already a URL, as listed rules report it, is returned unchanged.
func (c *Connection) networkPath(network string) string {
	if network == "" || strings.Contains(network, "/") {
		return network
	}
	return fmt.Sprintf("projects/%s/%s%s", c.projectID, NetworkPathRoot, network)
}

func (c *Connection) toComputeFirewall(rule firewall.Rule) *compute.Firewall {
	fw := &compute.Firewall{
		Name:         rule.Name,
		Network:      c.networkPath(rule.Network),
		Direction:    rule.Direction,
		Priority:     rule.Priority,
		Description:  rule.Description,
		Disabled:     rule.Disabled,
		SourceRanges: rule.SourceRanges,
		TargetTags:   rule.TargetTags,

		// Zero values are meaningful on an update.
		ForceSendFields: []string{"Priority", "Disabled"},
	}
	for _, spec := range rule.Allowed {
		fw.Allowed = append(fw.Allowed, &compute.FirewallAllowed{
			IPProtocol: spec.Protocol,
			Ports:      spec.Ports,
		})
	}
	for _, spec := range rule.Denied {
		fw.Denied = append(fw.Denied, &compute.FirewallDenied{
			IPProtocol: spec.Protocol,
			Ports:      spec.Ports,
		})
	}
	return fw
}

func fromComputeFirewall(fw *compute.Firewall) firewall.Rule {
	rule := firewall.Rule{
		Name:         fw.Name,
		Network:      fw.Network,
		Direction:    fw.Direction,
		Priority:     fw.Priority,
		Description:  fw.Description,
		Disabled:     fw.Disabled,
		SourceRanges: fw.SourceRanges,
		TargetTags:   fw.TargetTags,
	}
	for _, allowed := range fw.Allowed {
		rule.Allowed = append(rule.Allowed, firewall.PortSpec{
			Protocol: allowed.IPProtocol,
			Ports:    allowed.Ports,
		})
	}
	for _, denied := range fw.Denied {
		rule.Denied = append(rule.Denied, firewall.PortSpec{
			Protocol: denied.IPProtocol,
			Ports:    denied.Ports,
		})
	}
	return rule
}
