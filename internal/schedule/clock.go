package schedule

import "time"

// Clock supplies the scheduler's notion of "now".
//
// Production uses SystemClock; tests substitute a settable clock so due
// checks and cadence boundaries can be driven deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process-local wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
