package store

import (
	"context"
	"testing"

	"github.com/roach88/chime/internal/reminder"
)

func onceReminder(owner int64, text, date string, active bool) *reminder.Reminder {
	return &reminder.Reminder{
		OwnerID: owner,
		Text:    text,
		Kind:    reminder.KindOnce,
		Time:    reminder.TimeOfDay{Hour: 9, Minute: 0},
		Date:    date,
		Active:  active,
	}
}

func TestDeactivateExpiredOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	past, err := s.Create(ctx, onceReminder(1, "past", "2024-06-01", true))
	if err != nil {
		t.Fatal(err)
	}
	today, err := s.Create(ctx, onceReminder(1, "today", "2024-06-05", true))
	if err != nil {
		t.Fatal(err)
	}
	future, err := s.Create(ctx, onceReminder(1, "future", "2024-06-09", true))
	if err != nil {
		t.Fatal(err)
	}
	// A past-dated daily reminder must never be deactivated.
	daily := dailyReminder(1, "recurring")
	dailyID, err := s.Create(ctx, daily)
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.DeactivateExpiredOnce(ctx, "2024-06-05")
	if err != nil {
		t.Fatalf("DeactivateExpiredOnce() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deactivated %d reminders, want 1", n)
	}

	assertActive := func(id int64, want bool) {
		t.Helper()
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if got.Active != want {
			t.Errorf("reminder %d active = %v, want %v", id, got.Active, want)
		}
	}
	assertActive(past, false)
	assertActive(today, true) // due today, not expired yet
	assertActive(future, true)
	assertActive(dailyID, true)
}

func TestPurgeStale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Inactive and last fired 31 days before today: purged.
	stale := onceReminder(1, "stale", "2024-05-01", false)
	staleID, err := s.Create(ctx, stale)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetLastFired(ctx, staleID, "2024-05-05"); err != nil {
		t.Fatal(err)
	}

	// Inactive but fired recently: kept.
	recent := onceReminder(1, "recent", "2024-06-01", false)
	recentID, err := s.Create(ctx, recent)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetLastFired(ctx, recentID, "2024-06-01"); err != nil {
		t.Fatal(err)
	}

	// Inactive but never fired: kept.
	neverID, err := s.Create(ctx, onceReminder(1, "never", "2024-05-01", false))
	if err != nil {
		t.Fatal(err)
	}

	// Active and ancient: kept regardless of age.
	activeOld := dailyReminder(1, "active old")
	activeID, err := s.Create(ctx, activeOld)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetLastFired(ctx, activeID, "2024-01-01"); err != nil {
		t.Fatal(err)
	}

	n, err := s.PurgeStale(ctx, "2024-06-10", 30)
	if err != nil {
		t.Fatalf("PurgeStale() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d reminders, want 1", n)
	}

	if _, err := s.Get(ctx, staleID); err != reminder.ErrNotFound {
		t.Errorf("stale reminder still present: %v", err)
	}
	for _, id := range []int64{recentID, neverID, activeID} {
		if _, err := s.Get(ctx, id); err != nil {
			t.Errorf("reminder %d should survive purge: %v", id, err)
		}
	}
}

func TestPurgeStale_BadToday(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.PurgeStale(context.Background(), "garbage", 30); err == nil {
		t.Error("expected error for malformed today date")
	}
}
