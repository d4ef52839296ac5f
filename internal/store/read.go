package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/chime/internal/reminder"
)

const reminderColumns = "id, owner_id, text, kind, days, time, date, is_active, last_fired"

// Get returns the reminder with the given id.
// Returns reminder.ErrNotFound if no such row exists.
func (s *Store) Get(ctx context.Context, id int64) (*reminder.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE id = ?
	`, id)

	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reminder.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder %d: %w", id, err)
	}
	return rem, nil
}

// AllForOwner returns every reminder belonging to the owner, active or not,
// ordered by id (creation order).
//
// Returns an empty slice (not nil) if the owner has no reminders.
func (s *Store) AllForOwner(ctx context.Context, owner int64) ([]reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE owner_id = ?
		ORDER BY id ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("query owner reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// AllActive returns every active reminder across all owners, ordered by
// time of day then id so each scheduler pass sees a deterministic batch.
//
// Returns an empty slice (not nil) if no reminders are active.
func (s *Store) AllActive(ctx context.Context) ([]reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE is_active = 1
		ORDER BY time ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query active reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// Stats summarizes the stored reminders.
type Stats struct {
	Total  int            `json:"total"`
	Active int            `json:"active"`
	ByKind map[string]int `json:"by_kind"`
}

// ReadStats returns per-kind and active counts across all owners.
func (s *Store) ReadStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByKind: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, is_active, COUNT(*)
		FROM reminders
		GROUP BY kind, is_active
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var active bool
		var count int
		if err := rows.Scan(&kind, &active, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += count
		stats.ByKind[kind] += count
		if active {
			stats.Active += count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}

	return stats, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanReminder decodes one reminders row into the domain type.
func scanReminder(sc scanner) (*reminder.Reminder, error) {
	var (
		rem     reminder.Reminder
		daysRaw string
		timeRaw string
	)
	err := sc.Scan(
		&rem.ID,
		&rem.OwnerID,
		&rem.Text,
		(*string)(&rem.Kind),
		&daysRaw,
		&timeRaw,
		&rem.Date,
		&rem.Active,
		&rem.LastFired,
	)
	if err != nil {
		return nil, err
	}

	// A corrupt day set must not fault batch reads; the reminder simply
	// carries an empty set and is never due.
	if days, derr := reminder.ParseWeekdays(daysRaw); derr == nil {
		rem.Days = days
	} else {
		rem.Days = reminder.NewWeekdays()
	}

	if tod, terr := reminder.ParseTimeOfDay(timeRaw); terr == nil {
		rem.Time = tod
	}

	return &rem, nil
}

func collectReminders(rows *sql.Rows) ([]reminder.Reminder, error) {
	var reminders []reminder.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}

	// Return empty slice instead of nil
	if reminders == nil {
		reminders = []reminder.Reminder{}
	}
	return reminders, nil
}
