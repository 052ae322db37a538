// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
)

const (
	defaultRetryAttempts = 5
	defaultRetryDelay    = 2 * time.Second
	defaultRetryMaxDelay = 10 * time.Second
)

// RetryStrategy bounds how a block is retried: Attempts tries in total,
// waiting Delay after the first failure and doubling the wait after every
// subsequent one, never waiting longer than MaxDelay.
type RetryStrategy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryStrategy allows 5 attempts with waits of 2s, 4s, 8s and 10s.
func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		Attempts: defaultRetryAttempts,
		Delay:    defaultRetryDelay,
		MaxDelay: defaultRetryMaxDelay,
	}
}

// Validate returns an error if the strategy is unusable.
func (s RetryStrategy) Validate() error {
	if s.Attempts < 1 {
		return errors.NotValidf("retry attempts %d", s.Attempts)
	}
	if s.Delay <= 0 {
		return errors.NotValidf("retry delay %v", s.Delay)
	}
	if s.MaxDelay < s.Delay {
		return errors.NotValidf("retry max delay %v less than delay %v", s.MaxDelay, s.Delay)
	}
	return nil
}

// call runs f until it succeeds, returns a validation error, the context is
// done or the attempts are exhausted. The returned error is the last one
// returned by f.
func (s RetryStrategy) call(ctx context.Context, clk clock.Clock, f func() error, notify func(error, int)) error {
	err := retry.Call(retry.CallArgs{
		Func: f,
		IsFatalError: func(err error) bool {
			return errors.Is(err, errors.NotValid) || ctx.Err() != nil
		},
		NotifyFunc:  notify,
		Attempts:    s.Attempts,
		Delay:       s.Delay,
		MaxDelay:    s.MaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       clk,
		Stop:        ctx.Done(),
	})
	if err == nil {
		return nil
	}
	if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
		return errors.Trace(retry.LastError(err))
	}
	return errors.Trace(err)
}
