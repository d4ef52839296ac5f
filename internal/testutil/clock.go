// Package testutil provides deterministic fakes for scheduler and
// conversation tests: a settable clock, an in-memory reminder store, and a
// transcript-recording notifier.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable wall clock for deterministic tests.
//
// Unlike schedule.SystemClock, FixedClock only moves when told to, so a
// test can step the scheduler minute by minute across cadence boundaries.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at the given instant.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to the given instant.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MustParse parses a "2006-01-02 15:04" timestamp for test setup.
// Panics on malformed input: fail fast on test misconfiguration.
func MustParse(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic("testutil: bad timestamp " + s + ": " + err.Error())
	}
	return t
}
