// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"fmt"

	"github.com/juju/errors"
)

// ProviderError is returned when a call against a cloud admin API fails.
type ProviderError struct {
	// Op names the failed call, e.g. "insert firewall".
	Op  string
	Err error
}

func newProviderError(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}

// Error implements error.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the provider's error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err was caused by a cloud admin API call.
func IsProviderError(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr)
}
