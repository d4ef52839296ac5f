package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/chime/internal/reminder"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func dailyReminder(owner int64, text string) *reminder.Reminder {
	return &reminder.Reminder{
		OwnerID: owner,
		Text:    text,
		Kind:    reminder.KindDaily,
		Time:    reminder.TimeOfDay{Hour: 9, Minute: 0},
		Active:  true,
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// Open multiple times
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='reminders'",
	).Scan(&name)
	if err != nil {
		t.Errorf("reminders table not found after idempotent opens: %v", err)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := openTestStore(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("foreign_keys", "1"); err != nil {
		t.Error(err)
	}
}

func TestOpen_SchemaVersion(t *testing.T) {
	s := openTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, expected %d", version, currentSchemaVersion)
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rem := &reminder.Reminder{
		OwnerID: 42,
		Text:    "standup notes",
		Kind:    reminder.KindWeekly,
		Days:    reminder.NewWeekdays(1, 3),
		Time:    reminder.TimeOfDay{Hour: 9, Minute: 0},
		Active:  true,
	}

	id, err := s.Create(ctx, rem)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Create() returned id 0")
	}
	if rem.ID != id {
		t.Errorf("Create() did not write back id: got %d, want %d", rem.ID, id)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Text != "standup notes" || got.Kind != reminder.KindWeekly {
		t.Errorf("Get() = %+v, text/kind mismatch", got)
	}
	if got.Days.String() != "1,3" {
		t.Errorf("Days round-trip = %q, want %q", got.Days.String(), "1,3")
	}
	if got.Time.String() != "09:00" {
		t.Errorf("Time round-trip = %q, want %q", got.Time.String(), "09:00")
	}
	if !got.Active {
		t.Error("Active flag lost in round-trip")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 999)
	if err != reminder.ErrNotFound {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestAllForOwner_IsolatesOwners(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, dailyReminder(1, "mine")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, dailyReminder(2, "theirs")); err != nil {
		t.Fatal(err)
	}

	mine, err := s.AllForOwner(ctx, 1)
	if err != nil {
		t.Fatalf("AllForOwner() failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Text != "mine" {
		t.Errorf("AllForOwner(1) = %+v, want only owner 1's reminder", mine)
	}

	empty, err := s.AllForOwner(ctx, 3)
	if err != nil {
		t.Fatalf("AllForOwner() failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("AllForOwner(3) = %v, want empty non-nil slice", empty)
	}
}

func TestAllActive_OrderAndFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	late := dailyReminder(1, "late")
	late.Time = reminder.TimeOfDay{Hour: 18, Minute: 0}
	early := dailyReminder(1, "early")
	early.Time = reminder.TimeOfDay{Hour: 7, Minute: 30}
	paused := dailyReminder(1, "paused")
	paused.Active = false

	for _, r := range []*reminder.Reminder{late, early, paused} {
		if _, err := s.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	active, err := s.AllActive(ctx)
	if err != nil {
		t.Fatalf("AllActive() failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("AllActive() returned %d reminders, want 2", len(active))
	}
	if active[0].Text != "early" || active[1].Text != "late" {
		t.Errorf("AllActive() order = [%s, %s], want [early, late]",
			active[0].Text, active[1].Text)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rem := &reminder.Reminder{
		OwnerID: 1,
		Text:    "old text",
		Kind:    reminder.KindOnce,
		Time:    reminder.TimeOfDay{Hour: 9, Minute: 0},
		Date:    "2024-06-05",
		Active:  true,
	}
	id, err := s.Create(ctx, rem)
	if err != nil {
		t.Fatal(err)
	}

	newText := "new text"
	if err := s.Update(ctx, id, reminder.Patch{Text: &newText}); err != nil {
		t.Fatalf("Update(text) failed: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "new text" {
		t.Errorf("text = %q, want %q", got.Text, "new text")
	}
	if got.Date != "2024-06-05" {
		t.Errorf("date changed by text-only update: %q", got.Date)
	}

	newTime := reminder.TimeOfDay{Hour: 10, Minute: 15}
	newDate := "2024-07-01"
	err = s.Update(ctx, id, reminder.Patch{Time: &newTime, Date: &newDate})
	if err != nil {
		t.Fatalf("Update(time+date) failed: %v", err)
	}

	got, err = s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Time.String() != "10:15" || got.Date != "2024-07-01" {
		t.Errorf("time/date = %s/%s, want 10:15/2024-07-01", got.Time, got.Date)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := openTestStore(t)

	text := "x"
	err := s.Update(context.Background(), 999, reminder.Patch{Text: &text})
	if err == nil || !isNotFound(err) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, dailyReminder(1, "gone soon"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Get(ctx, id); err != reminder.ErrNotFound {
		t.Errorf("Get(deleted) = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); err == nil || !isNotFound(err) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}
}

func TestSetLastFired(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, dailyReminder(1, "fired"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetLastFired(ctx, id, "2024-06-05"); err != nil {
		t.Fatalf("SetLastFired() failed: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastFired != "2024-06-05" {
		t.Errorf("last_fired = %q, want %q", got.LastFired, "2024-06-05")
	}
}

func TestToggleActive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, dailyReminder(1, "flip me"))
	if err != nil {
		t.Fatal(err)
	}

	active, err := s.ToggleActive(ctx, id)
	if err != nil {
		t.Fatalf("ToggleActive() failed: %v", err)
	}
	if active {
		t.Error("first toggle should deactivate")
	}

	active, err = s.ToggleActive(ctx, id)
	if err != nil {
		t.Fatalf("second ToggleActive() failed: %v", err)
	}
	if !active {
		t.Error("second toggle should reactivate")
	}

	if _, err := s.ToggleActive(ctx, 999); err == nil || !isNotFound(err) {
		t.Errorf("ToggleActive(missing) = %v, want ErrNotFound", err)
	}
}

func TestReadStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, dailyReminder(1, "a")); err != nil {
		t.Fatal(err)
	}
	paused := dailyReminder(1, "b")
	paused.Active = false
	if _, err := s.Create(ctx, paused); err != nil {
		t.Fatal(err)
	}
	once := &reminder.Reminder{
		OwnerID: 1, Text: "c", Kind: reminder.KindOnce,
		Time: reminder.TimeOfDay{Hour: 8, Minute: 0}, Date: "2024-06-05", Active: true,
	}
	if _, err := s.Create(ctx, once); err != nil {
		t.Fatal(err)
	}

	stats, err := s.ReadStats(ctx)
	if err != nil {
		t.Fatalf("ReadStats() failed: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 {
		t.Errorf("stats = %+v, want total=3 active=2", stats)
	}
	if stats.ByKind["daily"] != 2 || stats.ByKind["once"] != 1 {
		t.Errorf("by_kind = %v, want daily=2 once=1", stats.ByKind)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, reminder.ErrNotFound)
}
