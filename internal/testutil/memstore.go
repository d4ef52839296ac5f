package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/chime/internal/reminder"
)

// MemStore is an in-memory reminder store for tests.
//
// It satisfies both the scheduler's and the conversation controller's store
// surfaces, and mirrors the SQLite store's semantics: assigned ids,
// ErrNotFound on missing rows, AllActive ordered by time then id.
//
// FailNext, when set, makes the next mutating call return that error and
// clears itself - used to exercise store-failure recovery paths.
type MemStore struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]reminder.Reminder
	FailNext error
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1, rows: make(map[int64]reminder.Reminder)}
}

// Seed inserts a reminder directly, bypassing failure injection.
// Returns the assigned id.
func (m *MemStore) Seed(rem reminder.Reminder) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	rem.ID = id
	m.rows[id] = rem
	return id
}

func (m *MemStore) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

// Create assigns an id and stores the reminder.
func (m *MemStore) Create(ctx context.Context, rem *reminder.Reminder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return 0, err
	}
	id := m.nextID
	m.nextID++
	rem.ID = id
	m.rows[id] = cloneReminder(*rem)
	return id, nil
}

// Get returns the reminder with the given id, or reminder.ErrNotFound.
func (m *MemStore) Get(ctx context.Context, id int64) (*reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, reminder.ErrNotFound
	}
	row = cloneReminder(row)
	return &row, nil
}

// AllForOwner returns the owner's reminders ordered by id.
func (m *MemStore) AllForOwner(ctx context.Context, owner int64) ([]reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []reminder.Reminder{}
	for _, row := range m.rows {
		if row.OwnerID == owner {
			out = append(out, cloneReminder(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AllActive returns active reminders ordered by time of day then id.
func (m *MemStore) AllActive(ctx context.Context) ([]reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []reminder.Reminder{}
	for _, row := range m.rows {
		if row.Active {
			out = append(out, cloneReminder(row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Time.String(), out[j].Time.String()
		if ti != tj {
			return ti < tj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update applies a partial update, or returns reminder.ErrNotFound.
func (m *MemStore) Update(ctx context.Context, id int64, patch reminder.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	row, ok := m.rows[id]
	if !ok {
		return reminder.ErrNotFound
	}
	if patch.Text != nil {
		row.Text = *patch.Text
	}
	if patch.Time != nil {
		row.Time = *patch.Time
	}
	if patch.Date != nil {
		row.Date = *patch.Date
	}
	if patch.Days != nil {
		row.Days = patch.Days.Clone()
	}
	m.rows[id] = row
	return nil
}

// Delete removes the reminder, or returns reminder.ErrNotFound.
func (m *MemStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	if _, ok := m.rows[id]; !ok {
		return reminder.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// SetLastFired records a delivery date, or returns reminder.ErrNotFound.
func (m *MemStore) SetLastFired(ctx context.Context, id int64, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	row, ok := m.rows[id]
	if !ok {
		return reminder.ErrNotFound
	}
	row.LastFired = date
	m.rows[id] = row
	return nil
}

// ToggleActive flips the active flag and returns the new state.
func (m *MemStore) ToggleActive(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return false, err
	}
	row, ok := m.rows[id]
	if !ok {
		return false, reminder.ErrNotFound
	}
	row.Active = !row.Active
	m.rows[id] = row
	return row.Active, nil
}

// DeactivateExpiredOnce deactivates once reminders dated before today.
func (m *MemStore) DeactivateExpiredOnce(ctx context.Context, today string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if row.Kind == reminder.KindOnce && row.Active && row.Date != "" && row.Date < today {
			row.Active = false
			m.rows[id] = row
			n++
		}
	}
	return n, nil
}

// PurgeStale deletes inactive reminders last fired before the retention
// cutoff.
func (m *MemStore) PurgeStale(ctx context.Context, today string, retentionDays int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day, err := reminder.ParseDate(today)
	if err != nil {
		return 0, err
	}
	cutoff := reminder.FormatDate(day.AddDate(0, 0, -retentionDays))
	var n int64
	for id, row := range m.rows {
		if !row.Active && row.LastFired != "" && row.LastFired < cutoff {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func cloneReminder(r reminder.Reminder) reminder.Reminder {
	r.Days = r.Days.Clone()
	return r
}
