// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package firewall

import (
	"github.com/juju/errors"
)

const (
	// ActionAllow and ActionDeny are the actions of an ingress rule.
	ActionAllow = "ALLOW"
	ActionDeny  = "DENY"

	// DefaultIngressDescription is set on every created ingress rule.
	DefaultIngressDescription = "DDoS Block"

	// CatchAllPriority is the priority of the default rule an application
	// platform keeps at the end of its ingress rule list.
	CatchAllPriority int64 = 2147483647
)

// IngressRule is an application-layer firewall rule matching a single
// source range.
type IngressRule struct {
	Priority    int64
	Action      string
	SourceRange string
	Description string
}

// IsCatchAll reports whether the rule is the platform's default rule.
func (r IngressRule) IsCatchAll() bool {
	return r.Priority == CatchAllPriority
}

// PriorityPolicy selects how the priority of a new ingress rule is derived
// from the existing ones.
type PriorityPolicy string

const (
	// PriorityPositional takes the priority of the second to last rule and
	// adds one. It assumes the list ends with the catch-all rule.
	PriorityPositional PriorityPolicy = "positional"

	// PriorityMax takes the highest priority of every rule other than the
	// catch-all and adds one.
	PriorityMax PriorityPolicy = "max"
)

// Validate returns a NotValid error for an unknown policy.
func (p PriorityPolicy) Validate() error {
	switch p {
	case PriorityPositional, PriorityMax:
		return nil
	}
	return errors.NotValidf("priority policy %q", string(p))
}

// NextIngressPriority returns the priority to give a new rule appended to
// rules. With fewer than two rules (positional) or no rule other than the
// catch-all (max) the result is 1.
func NextIngressPriority(rules []IngressRule, policy PriorityPolicy) int64 {
	if policy == PriorityMax {
		var highest int64
		for _, rule := range rules {
			if rule.IsCatchAll() {
				continue
			}
			if rule.Priority > highest {
				highest = rule.Priority
			}
		}
		return highest + 1
	}
	if len(rules) < 2 {
		return 1
	}
	return rules[len(rules)-2].Priority + 1
}

// NewDenyIngressRule returns an ingress rule denying sourceRange.
func NewDenyIngressRule(priority int64, sourceRange, description string) IngressRule {
	return IngressRule{
		Priority:    priority,
		Action:      ActionDeny,
		SourceRange: sourceRange,
		Description: description,
	}
}
