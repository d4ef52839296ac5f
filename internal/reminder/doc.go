// Package reminder defines the domain model for scheduled reminders.
//
// A Reminder pairs free-form text with a recurrence rule and a time of day.
// Six recurrence kinds are supported:
//
//   - daily: fires every day
//   - weekly: fires on a set of ISO weekdays (1=Monday..7=Sunday)
//   - monthly: fires on a fixed day of month
//   - yearly: fires on a fixed month/day
//   - birthday: yearly plus an age computed from the stored year
//   - once: fires on exactly one date, then expires
//
// # Payload invariants
//
// The recurrence payload must match the kind: weekly carries a non-empty
// weekday set, the four date kinds carry a calendar date, daily carries
// neither. Validate enforces this before a reminder is persisted.
//
// # Date and time encoding
//
// Dates are stored as "2006-01-02" strings and times of day at minute
// granularity. User-facing date input uses "02.01.2006" (see ParseInputDate).
// All parsing is strict; malformed input yields a ValidationError, never a
// partially-filled value.
package reminder
