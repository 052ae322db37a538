// Copyright 2014 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/juju/retry"
	"google.golang.org/api/compute/v1"
)

// StatusDone is the status of a finished compute operation.
const StatusDone = "DONE"

const errOperationPending = errors.ConstError("operation pending")

var (
	operationPollDelay   = 2 * time.Second
	operationPollTimeout = 5 * time.Minute
)

// waitOperation polls the global operation until it is done and returns
// any error the operation reports.
func (c *Connection) waitOperation(ctx context.Context, op *compute.Operation) error {
	if op == nil {
		return nil
	}
	name := op.Name
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if op.Status == StatusDone {
				return nil
			}
			var err error
			op, err = c.compute.GlobalOperations.Get(c.projectID, name).Context(ctx).Do()
			if err != nil {
				return errors.Annotatef(err, "getting operation %q", name)
			}
			if op.Status != StatusDone {
				return errOperationPending
			}
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errOperationPending)
		},
		Delay:       operationPollDelay,
		MaxDuration: operationPollTimeout,
		Clock:       c.clock,
		Stop:        ctx.Done(),
	})
	if retry.IsDurationExceeded(err) {
		return errors.Errorf("timed out waiting for operation %q", name)
	}
	if retry.IsRetryStopped(err) {
		return errors.Annotatef(ctx.Err(), "waiting for operation %q", name)
	}
	if err != nil {
		return errors.Trace(err)
	}

	if op.Error != nil && len(op.Error.Errors) > 0 {
		opErr := &operationError{name: name}
		for _, e := range op.Error.Errors {
			opErr.errors = append(opErr.errors, e.Code+": "+e.Message)
		}
		return opErr
	}
	return nil
}
