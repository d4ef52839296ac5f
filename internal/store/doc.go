// Package store provides SQLite-backed persistence for reminders.
//
// The store owns a single table, reminders, holding the full record shape:
// owner, text, recurrence kind and payload, time of day, active flag, and
// the last-fired date used by the scheduler's dedup guard.
//
// # Encoding
//
// Dates (payload and last_fired) are stored as "2006-01-02" strings with ""
// meaning absent; time of day as "HH:MM"; the weekly day set as sorted
// comma-joined ISO weekday numbers ("1,3"). String comparison on the ISO
// date encoding is chronological, which the maintenance queries rely on.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// A single connection is used: the scheduler and the conversation layer
// serialize all writes through one process, and SQLite allows only one
// writer at a time anyway.
package store
