package store

import (
	"context"
	"fmt"

	"github.com/roach88/chime/internal/reminder"
)

// DeactivateExpiredOnce deactivates once-kind reminders whose date precedes
// today ("2006-01-02"). Returns the number of reminders deactivated.
//
// Only the once kind is touched; recurring reminders never expire.
func (s *Store) DeactivateExpiredOnce(ctx context.Context, today string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET is_active = 0
		WHERE kind = ?
		  AND is_active = 1
		  AND date <> ''
		  AND date < ?
	`, string(reminder.KindOnce), today)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired once reminders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate expired once reminders: %w", err)
	}
	return n, nil
}

// PurgeStale deletes inactive reminders whose last_fired date is more than
// retentionDays before today. Reminders that never fired (empty last_fired)
// are kept. Returns the number of rows deleted.
func (s *Store) PurgeStale(ctx context.Context, today string, retentionDays int) (int64, error) {
	day, err := reminder.ParseDate(today)
	if err != nil {
		return 0, fmt.Errorf("purge stale reminders: %w", err)
	}
	cutoff := reminder.FormatDate(day.AddDate(0, 0, -retentionDays))

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reminders
		WHERE is_active = 0
		  AND last_fired <> ''
		  AND last_fired < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge stale reminders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge stale reminders: %w", err)
	}
	return n, nil
}
