// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"time"

	"github.com/juju/clock/testclock"
)

// recordingClock fires every After immediately, advancing its time by the
// requested duration and remembering it.
type recordingClock struct {
	*testclock.Clock
	waits []time.Duration
}

func newRecordingClock() *recordingClock {
	return &recordingClock{
		Clock: testclock.NewClock(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)),
	}
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.waits = append(c.waits, d)
	c.Clock.Advance(d)
	ch := make(chan time.Time, 1)
	ch <- c.Clock.Now()
	return ch
}

func (c *recordingClock) totalWait() time.Duration {
	var total time.Duration
	for _, d := range c.waits {
		total += d
	}
	return total
}
