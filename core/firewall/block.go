// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package firewall

import (
	"github.com/juju/errors"
)

// BlockType selects the layer an address is blocked at.
type BlockType string

const (
	// Compute blocks at the VM networking layer by adding the address to
	// the reserved firewall rule.
	Compute BlockType = "compute"

	// AppEngine blocks at the application ingress layer by appending a new
	// deny rule.
	AppEngine BlockType = "appengine"
)

// ParseBlockType returns the BlockType named by s.
func ParseBlockType(s string) (BlockType, error) {
	switch t := BlockType(s); t {
	case Compute, AppEngine:
		return t, nil
	}
	return "", errors.NotValidf("block type %q", s)
}

// BlockRequest asks for IP to be blocked at the given layer.
type BlockRequest struct {
	Type BlockType
	IP   string
}

// Validate returns a NotValid error if the request cannot be acted upon.
func (r BlockRequest) Validate() error {
	if _, err := ParseBlockType(string(r.Type)); err != nil {
		return errors.Trace(err)
	}
	if r.Type == Compute {
		return errors.Trace(ValidateHostAddress(r.IP))
	}
	return errors.Trace(ValidateIngressAddress(r.IP))
}

// Change describes what a block did to the provider's rules.
type Change string

const (
	// Created means a new rule was created.
	Created Change = "created"
	// Updated means an existing rule gained a source range.
	Updated Change = "updated"
	// Unchanged means the address was already blocked.
	Unchanged Change = "unchanged"
)

// Result is the outcome of a successful block.
type Result struct {
	Type        BlockType
	IP          string
	RuleName    string
	SourceRange string
	Priority    int64
	Change      Change

	// Attempts is the number of times the block was tried.
	Attempts int
}
