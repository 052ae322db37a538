// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package firewall

import (
	"github.com/juju/collections/set"
)

const (
	// DefaultRuleName is the name reserved for the network-layer rule that
	// carries every blocked source range of a project.
	DefaultRuleName = "ddosblock"

	// DefaultNetwork is the network the blocking rule is attached to.
	DefaultNetwork = "default"

	// DefaultRuleDescription is set on a newly created blocking rule.
	DefaultRuleDescription = "Blocked IPs because of DDoS Attack."

	// DirectionIngress is the only traffic direction rules are created for.
	DirectionIngress = "INGRESS"

	// ProtocolAll matches every IP protocol.
	ProtocolAll = "all"

	// BlockRulePriority is the priority of a newly created blocking rule.
	BlockRulePriority = 1
)

// PortSpec is a protocol with an optional list of ports or port ranges
// ("80", "8000-9000"). An empty Ports list matches every port.
type PortSpec struct {
	Protocol string
	Ports    []string
}

// Rule is a network-layer firewall rule.
//
// Rules returned by a provider are treated as values: the methods below
// never modify the receiver's slices.
type Rule struct {
	Name string

	// Network is either a network name in the managing project or, for
	// rules read back from a provider, the network URL it reported.
	Network string

	Direction   string
	Priority    int64
	Description string
	Disabled    bool

	SourceRanges []string
	TargetTags   []string
	Allowed      []PortSpec
	Denied       []PortSpec
}

// NewBlockRule returns the rule created the first time an address is
// blocked: ingress, priority 1, every protocol denied from sourceRange.
func NewBlockRule(name, network, description, sourceRange string) Rule {
	return Rule{
		Name:         name,
		Network:      network,
		Direction:    DirectionIngress,
		Priority:     BlockRulePriority,
		Description:  description,
		SourceRanges: []string{sourceRange},
		Denied: []PortSpec{{
			Protocol: ProtocolAll,
		}},
	}
}

// HasSourceRange reports whether cidr is already one of the rule's source
// ranges.
func (r Rule) HasSourceRange(cidr string) bool {
	return set.NewStrings(r.SourceRanges...).Contains(cidr)
}

// WithSourceRange returns a copy of the rule with cidr appended to its
// source ranges. If cidr is already present the copy is otherwise identical
// to the receiver.
func (r Rule) WithSourceRange(cidr string) Rule {
	out := r.Copy()
	if !r.HasSourceRange(cidr) {
		out.SourceRanges = append(out.SourceRanges, cidr)
	}
	return out
}

// Copy returns a deep copy of the rule.
func (r Rule) Copy() Rule {
	out := r
	out.SourceRanges = copyStrings(r.SourceRanges)
	out.TargetTags = copyStrings(r.TargetTags)
	out.Allowed = copyPortSpecs(r.Allowed)
	out.Denied = copyPortSpecs(r.Denied)
	return out
}

// LocateRule scans rules in order and returns the first one called name.
// The boolean result is false when no rule carries that name; that is an
// expected outcome and not an error.
func LocateRule(rules []Rule, name string) (Rule, bool) {
	for _, rule := range rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyPortSpecs(in []PortSpec) []PortSpec {
	if in == nil {
		return nil
	}
	out := make([]PortSpec, len(in))
	for i, spec := range in {
		out[i] = PortSpec{
			Protocol: spec.Protocol,
			Ports:    copyStrings(spec.Ports),
		}
	}
	return out
}
