// Package schedule implements the recurrence evaluation engine and the
// periodic scheduler loop that drives it.
//
// ARCHITECTURE:
//
// Single-threaded periodic driver:
// The scheduler runs one pass per minute in a single goroutine. All store
// writes triggered by scheduling (last_fired updates, maintenance) happen
// in that goroutine, so no two reminder mutations race. Notification sends
// are bounded by a per-send timeout so one slow delivery never stalls the
// rest of the pass.
//
// Three cadences hang off the same minute tick:
//
//  1. Check pass (every minute): fetch active reminders, evaluate IsDue,
//     deliver, persist last_fired on success only.
//  2. Maintenance pass (daily at a fixed time): deactivate expired once
//     reminders, purge stale inactive ones.
//  3. Digest pass (weekly at a fixed weekday/time): project the coming week
//     and deliver a summary to the configured recipient.
//
// FAILURE CONTRACT:
//
// A failed delivery is logged and last_fired stays unset, so the reminder
// remains a candidate at the next qualifying tick. Because IsDue compares
// the exact minute, that retry only happens while the clock still reports
// the matching minute. Per-item failures never abort the pass.
package schedule
