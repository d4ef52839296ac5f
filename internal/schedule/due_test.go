package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/chime/internal/reminder"
	"github.com/roach88/chime/internal/testutil"
)

func at(stamp string) time.Time {
	return testutil.MustParse(stamp)
}

func TestIsDue_FastRejectOnTime(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindDaily,
		Time: reminder.TimeOfDay{Hour: 9, Minute: 0},
	}

	assert.True(t, IsDue(rem, at("2024-06-05 09:00")))
	assert.False(t, IsDue(rem, at("2024-06-05 09:01")))
	assert.False(t, IsDue(rem, at("2024-06-05 21:00")))
}

func TestIsDue_Daily(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindDaily,
		Time: reminder.TimeOfDay{Hour: 9, Minute: 0},
	}

	// Due every day at the matching minute, as long as it hasn't fired today.
	assert.True(t, IsDue(rem, at("2024-06-05 09:00")))
	assert.True(t, IsDue(rem, at("2024-06-06 09:00")))

	rem.LastFired = "2024-06-05"
	assert.False(t, IsDue(rem, at("2024-06-05 09:00")), "dedup guard")
	assert.True(t, IsDue(rem, at("2024-06-06 09:00")), "new day resets the guard")
}

func TestIsDue_Weekly(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindWeekly,
		Days: reminder.NewWeekdays(1, 3), // Mon, Wed
		Time: reminder.TimeOfDay{Hour: 9, Minute: 0},
	}

	// 2024-06-03 Mon, 06-04 Tue, 06-05 Wed.
	assert.True(t, IsDue(rem, at("2024-06-03 09:00")))
	assert.False(t, IsDue(rem, at("2024-06-04 09:00")))
	assert.True(t, IsDue(rem, at("2024-06-05 09:00")))
}

func TestIsDue_Monthly(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindMonthly,
		Date: "2024-01-31",
		Time: reminder.TimeOfDay{Hour: 12, Minute: 0},
	}

	assert.True(t, IsDue(rem, at("2024-05-31 12:00")))
	assert.False(t, IsDue(rem, at("2024-05-30 12:00")))

	// Day 31 never matches inside a 30-day month - no clamping.
	for day := 1; day <= 30; day++ {
		now := time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC)
		assert.False(t, IsDue(rem, now), "due on 2024-06-%02d", day)
	}
}

func TestIsDue_Yearly(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindYearly,
		Date: "2000-06-05",
		Time: reminder.TimeOfDay{Hour: 10, Minute: 30},
	}

	assert.True(t, IsDue(rem, at("2024-06-05 10:30")))
	assert.False(t, IsDue(rem, at("2024-06-06 10:30")))
	assert.False(t, IsDue(rem, at("2024-07-05 10:30")))
}

func TestIsDue_Birthday(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindBirthday,
		Date: "1990-06-05",
		Time: reminder.TimeOfDay{Hour: 8, Minute: 0},
	}

	assert.True(t, IsDue(rem, at("2024-06-05 08:00")))
	assert.False(t, IsDue(rem, at("2024-06-04 08:00")))

	age, ok := AgeAt(rem, at("2024-06-05 08:00"))
	assert.True(t, ok)
	assert.Equal(t, 34, age)

	// Age is display-only and absent for other kinds.
	_, ok = AgeAt(&reminder.Reminder{Kind: reminder.KindYearly, Date: "1990-06-05"}, at("2024-06-05 08:00"))
	assert.False(t, ok)
}

func TestIsDue_Once(t *testing.T) {
	rem := &reminder.Reminder{
		Kind: reminder.KindOnce,
		Date: "2024-06-05",
		Time: reminder.TimeOfDay{Hour: 15, Minute: 45},
	}

	assert.True(t, IsDue(rem, at("2024-06-05 15:45")))
	assert.False(t, IsDue(rem, at("2024-06-04 15:45")))
	assert.False(t, IsDue(rem, at("2024-06-06 15:45")))
}

func TestIsDue_MalformedDateNeverDue(t *testing.T) {
	// A date-requiring kind with a missing or corrupt date must evaluate to
	// "never due" without faulting.
	for _, kind := range []reminder.Kind{
		reminder.KindMonthly, reminder.KindYearly, reminder.KindBirthday, reminder.KindOnce,
	} {
		for _, date := range []string{"", "garbage", "2024-13-40"} {
			rem := &reminder.Reminder{
				Kind: kind,
				Date: date,
				Time: reminder.TimeOfDay{Hour: 9, Minute: 0},
			}
			assert.NotPanics(t, func() {
				assert.False(t, IsDue(rem, at("2024-06-05 09:00")),
					"kind=%s date=%q", kind, date)
			})
		}
	}
}

func TestIsDue_DedupGuardOverridesMatch(t *testing.T) {
	rem := &reminder.Reminder{
		Kind:      reminder.KindWeekly,
		Days:      reminder.NewWeekdays(3),
		Time:      reminder.TimeOfDay{Hour: 9, Minute: 0},
		LastFired: "2024-06-05",
	}

	// Wednesday 09:00 matches the rule, but the guard wins.
	assert.False(t, IsDue(rem, at("2024-06-05 09:00")))
}
