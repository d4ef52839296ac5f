package digest

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/chime/internal/reminder"
)

// To regenerate golden files, run:
//
//	go test ./internal/digest -update

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRender_WeekAhead(t *testing.T) {
	rems := []reminder.Reminder{
		{ID: 1, Text: "water the plants", Kind: reminder.KindDaily,
			Time: reminder.TimeOfDay{Hour: 9, Minute: 0}, Active: true},
		{ID: 2, Text: "standup notes", Kind: reminder.KindWeekly,
			Days: reminder.NewWeekdays(1, 3), Time: reminder.TimeOfDay{Hour: 9, Minute: 30}, Active: true},
		{ID: 3, Text: "pay rent", Kind: reminder.KindMonthly,
			Date: "2024-01-05", Time: reminder.TimeOfDay{Hour: 10, Minute: 0}, Active: true},
		{ID: 4, Text: "wedding anniversary", Kind: reminder.KindYearly,
			Date: "2000-06-05", Time: reminder.TimeOfDay{Hour: 18, Minute: 0}, Active: true},
		{ID: 5, Text: "Anna's birthday", Kind: reminder.KindBirthday,
			Date: "1990-06-07", Time: reminder.TimeOfDay{Hour: 9, Minute: 0}, Active: true},
		{ID: 6, Text: "renew passport", Kind: reminder.KindOnce,
			Date: "2024-06-08", Time: reminder.TimeOfDay{Hour: 12, Minute: 30}, Active: true},
	}

	start, end := day("2024-06-03"), day("2024-06-09")
	groups := Project(rems, start, end, start)
	out := Render(groups, start, end)

	golden(t).Assert(t, "week_ahead", []byte(out))
}

func TestRender_Empty(t *testing.T) {
	start, end := day("2024-06-03"), day("2024-06-09")
	out := Render(nil, start, end)

	golden(t).Assert(t, "empty_week", []byte(out))
}

func TestRender_SortsKindsRegardlessOfInputOrder(t *testing.T) {
	rems := []reminder.Reminder{
		{ID: 1, Text: "renew passport", Kind: reminder.KindOnce,
			Date: "2024-06-08", Time: reminder.TimeOfDay{Hour: 12, Minute: 30}, Active: true},
		{ID: 2, Text: "water the plants", Kind: reminder.KindDaily,
			Time: reminder.TimeOfDay{Hour: 9, Minute: 0}, Active: true},
	}

	start, end := day("2024-06-03"), day("2024-06-09")
	groups := Project(rems, start, end, start)
	out := Render(groups, start, end)

	// Input order is once-then-daily; rendering sorts daily first.
	golden(t).Assert(t, "sorted_kinds", []byte(out))
}
