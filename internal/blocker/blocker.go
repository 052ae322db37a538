// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/juju/ddosblock/core/firewall"
)

// Config holds the collaborators and settings of a Blocker.
type Config struct {
	// Firewalls manages the network-layer rules. It may be nil if
	// compute blocks are never requested.
	Firewalls FirewallAPI

	// Ingress manages the application-layer rules. It may be nil if
	// appengine blocks are never requested.
	Ingress IngressAPI

	Clock  clock.Clock
	Logger Logger

	// RuleName is the name reserved for the network-layer rule.
	RuleName string

	// Network is the network the network-layer rule is created in.
	Network string

	// RuleDescription and IngressDescription are set on created rules.
	RuleDescription    string
	IngressDescription string

	// PriorityPolicy derives the priority of new ingress rules.
	PriorityPolicy firewall.PriorityPolicy

	// NormalizeSourceRanges appends a prefix length to bare addresses
	// in ingress rules.
	NormalizeSourceRanges bool

	Retry RetryStrategy
}

// Validate returns an error if the config cannot be used to make a Blocker.
func (config Config) Validate() error {
	if config.Firewalls == nil && config.Ingress == nil {
		return errors.NotValidf("missing both Firewalls and Ingress")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	if config.RuleName == "" {
		return errors.NotValidf("empty RuleName")
	}
	if config.Network == "" {
		return errors.NotValidf("empty Network")
	}
	if err := config.PriorityPolicy.Validate(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(config.Retry.Validate())
}

// DefaultConfig returns a Config with every setting at its default. The
// collaborators, clock and logger still need to be supplied.
func DefaultConfig() Config {
	return Config{
		RuleName:           firewall.DefaultRuleName,
		Network:            firewall.DefaultNetwork,
		RuleDescription:    firewall.DefaultRuleDescription,
		IngressDescription: firewall.DefaultIngressDescription,
		PriorityPolicy:     firewall.PriorityPositional,
		Retry:              DefaultRetryStrategy(),
	}
}

// Blocker blocks addresses by upserting provider firewall rules.
type Blocker struct {
	config Config
}

// New returns a Blocker for the given config.
func New(config Config) (*Blocker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Blocker{config: config}, nil
}

// Block blocks req.IP at the layer selected by req.Type. The whole
// list-then-write sequence is retried as a unit according to the
// configured strategy; a request that fails validation is not retried.
func (b *Blocker) Block(ctx context.Context, req firewall.BlockRequest) (firewall.Result, error) {
	if err := req.Validate(); err != nil {
		return firewall.Result{}, errors.Trace(err)
	}

	var block func(context.Context, string) (firewall.Result, error)
	switch req.Type {
	case firewall.Compute:
		if b.config.Firewalls == nil {
			return firewall.Result{}, errors.NotSupportedf("compute blocks")
		}
		block = b.blockCompute
	case firewall.AppEngine:
		if b.config.Ingress == nil {
			return firewall.Result{}, errors.NotSupportedf("appengine blocks")
		}
		block = b.blockAppEngine
	}

	var (
		result   firewall.Result
		attempts int
	)
	start := b.config.Clock.Now()
	err := b.config.Retry.call(ctx, b.config.Clock, func() error {
		attempts++
		var err error
		result, err = block(ctx, req.IP)
		return err
	}, func(err error, attempt int) {
		b.config.Logger.Warningf("blocking %s (%s) failed on attempt %d: %v", req.IP, req.Type, attempt, err)
	})
	if err != nil {
		return firewall.Result{}, errors.Annotatef(err, "blocking %s (%s) after %d attempt(s)", req.IP, req.Type, attempts)
	}

	result.Type = req.Type
	result.IP = req.IP
	result.Attempts = attempts
	b.config.Logger.Infof("blocked %s (%s): rule %q %s in %s",
		req.IP, req.Type, result.RuleName, result.Change, b.config.Clock.Now().Sub(start).Round(time.Millisecond))
	return result, nil
}
