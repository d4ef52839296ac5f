package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/chime/internal/reminder"
)

// Create inserts a new reminder and returns its store-assigned id.
// The id is also written back into rem.ID.
func (s *Store) Create(ctx context.Context, rem *reminder.Reminder) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders
		(owner_id, text, kind, days, time, date, is_active, last_fired)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rem.OwnerID,
		rem.Text,
		string(rem.Kind),
		rem.Days.String(),
		rem.Time.String(),
		rem.Date,
		rem.Active,
		rem.LastFired,
	)
	if err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}
	rem.ID = id
	return id, nil
}

// Update applies a partial update to the reminder's mutable fields.
// Unset patch fields are left unchanged. An empty patch is a no-op.
// Returns reminder.ErrNotFound if the id does not exist.
func (s *Store) Update(ctx context.Context, id int64, patch reminder.Patch) error {
	if patch.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if patch.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *patch.Text)
	}
	if patch.Time != nil {
		sets = append(sets, "time = ?")
		args = append(args, patch.Time.String())
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *patch.Date)
	}
	if patch.Days != nil {
		sets = append(sets, "days = ?")
		args = append(args, patch.Days.String())
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE reminders SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("update reminder %d: %w", id, err)
	}
	return requireRow(res, id, "update")
}

// Delete removes the reminder with the given id.
// Returns reminder.ErrNotFound if the id does not exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return requireRow(res, id, "delete")
}

// SetLastFired records the date ("2006-01-02") of the last successful
// delivery. The scheduler calls this only after a send succeeds, which is
// what makes firing idempotent within a day.
func (s *Store) SetLastFired(ctx context.Context, id int64, date string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reminders SET last_fired = ? WHERE id = ?", date, id)
	if err != nil {
		return fmt.Errorf("set last_fired for reminder %d: %w", id, err)
	}
	return requireRow(res, id, "set last_fired for")
}

// ToggleActive flips the active flag and returns the new state.
// Returns reminder.ErrNotFound if the id does not exist.
func (s *Store) ToggleActive(ctx context.Context, id int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("toggle reminder %d: begin tx: %w", id, err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		UPDATE reminders
		SET is_active = CASE WHEN is_active = 1 THEN 0 ELSE 1 END
		WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("toggle reminder %d: %w", id, err)
	}
	if err := requireRow(res, id, "toggle"); err != nil {
		return false, err
	}

	var active bool
	if err := tx.QueryRowContext(ctx,
		"SELECT is_active FROM reminders WHERE id = ?", id).Scan(&active); err != nil {
		return false, fmt.Errorf("toggle reminder %d: read back: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("toggle reminder %d: commit: %w", id, err)
	}
	return active, nil
}

// requireRow converts a zero-row result into reminder.ErrNotFound.
func requireRow(res interface{ RowsAffected() (int64, error) }, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s reminder %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s reminder %d: %w", op, id, reminder.ErrNotFound)
	}
	return nil
}
