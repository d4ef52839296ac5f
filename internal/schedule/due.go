package schedule

import (
	"time"

	"github.com/roach88/chime/internal/reminder"
)

// IsDue reports whether a reminder must fire at the given instant.
//
// Evaluation order:
//  1. Fast reject: the reminder's time of day must equal now's, at minute
//     granularity.
//  2. Kind dispatch: daily always matches; weekly matches on the ISO
//     weekday set; monthly on day of month; yearly and birthday on
//     month/day; once on the exact date.
//  3. Dedup guard: a reminder that already fired today is never due again,
//     regardless of step 2.
//
// A date-requiring reminder with a missing or malformed date is never due.
// It must not fault: one bad record cannot break evaluation of the batch.
func IsDue(rem *reminder.Reminder, now time.Time) bool {
	if reminder.TimeOfDayFrom(now) != rem.Time {
		return false
	}

	today := reminder.FormatDate(now)
	if rem.LastFired == today {
		return false
	}

	switch rem.Kind {
	case reminder.KindDaily:
		return true
	case reminder.KindWeekly:
		return rem.Days.Contains(reminder.ISOWeekday(now))
	case reminder.KindMonthly:
		d, ok := rem.DateAt()
		return ok && d.Day() == now.Day()
	case reminder.KindYearly, reminder.KindBirthday:
		d, ok := rem.DateAt()
		return ok && d.Month() == now.Month() && d.Day() == now.Day()
	case reminder.KindOnce:
		d, ok := rem.DateAt()
		return ok && reminder.FormatDate(d) == today
	}
	return false
}

// AgeAt returns the age implied by a birthday reminder's stored year at the
// given instant. Display-only: the due decision never depends on it.
// Returns false for non-birthday kinds or malformed dates.
func AgeAt(rem *reminder.Reminder, now time.Time) (int, bool) {
	if rem.Kind != reminder.KindBirthday {
		return 0, false
	}
	d, ok := rem.DateAt()
	if !ok {
		return 0, false
	}
	return now.Year() - d.Year(), true
}
