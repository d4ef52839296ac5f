// Package digest projects active reminders onto a forward date window and
// renders the weekly summary the scheduler delivers.
package digest

import (
	"time"

	"github.com/roach88/chime/internal/reminder"
)

// Occurrence is one reminder's appearance within a projection window.
//
// On is the concrete calendar date for the date-bound kinds; it is zero for
// daily and weekly reminders, whose in-window days are presentation detail.
// Age is set only for birthdays.
type Occurrence struct {
	Reminder reminder.Reminder
	On       time.Time
	Age      int
}

// Group collects a window's occurrences of one recurrence kind.
type Group struct {
	Kind        reminder.Kind
	Occurrences []Occurrence
}

// Project returns the reminders that occur within [windowStart, windowEnd],
// inclusive on both ends, grouped by kind in first-seen order.
//
// now anchors the roll-forward rule for yearly and birthday reminders: a
// candidate occurrence that already passed this year moves to the next one.
// Callers needing a stable presentation order must sort the groups
// explicitly; Render does.
func Project(reminders []reminder.Reminder, windowStart, windowEnd, now time.Time) []Group {
	start := dateOnly(windowStart)
	end := dateOnly(windowEnd)
	today := dateOnly(now)

	var groups []Group
	index := make(map[reminder.Kind]int)

	add := func(occ Occurrence) {
		kind := occ.Reminder.Kind
		i, seen := index[kind]
		if !seen {
			i = len(groups)
			index[kind] = i
			groups = append(groups, Group{Kind: kind})
		}
		groups[i].Occurrences = append(groups[i].Occurrences, occ)
	}

	for _, rem := range reminders {
		switch rem.Kind {
		case reminder.KindDaily:
			add(Occurrence{Reminder: rem})

		case reminder.KindWeekly:
			if !rem.Days.Empty() {
				add(Occurrence{Reminder: rem})
			}

		case reminder.KindMonthly:
			d, ok := rem.DateAt()
			if !ok {
				continue
			}
			if on, ok := dayOfMonthInWindow(d.Day(), start, end); ok {
				add(Occurrence{Reminder: rem, On: on})
			}

		case reminder.KindYearly, reminder.KindBirthday:
			d, ok := rem.DateAt()
			if !ok {
				continue
			}
			occ, ok := nextAnniversary(d, start.Year(), today)
			if !ok || occ.Before(start) || occ.After(end) {
				continue
			}
			o := Occurrence{Reminder: rem, On: occ}
			if rem.Kind == reminder.KindBirthday {
				o.Age = occ.Year() - d.Year()
			}
			add(o)

		case reminder.KindOnce:
			d, ok := rem.DateAt()
			if !ok {
				continue
			}
			on := dateOnly(d)
			if !on.Before(start) && !on.After(end) {
				add(Occurrence{Reminder: rem, On: on})
			}
		}
	}

	return groups
}

// dayOfMonthInWindow scans the window for a date whose day of month matches.
// No clamping: day 31 never matches inside a 30-day month.
func dayOfMonthInWindow(day int, start, end time.Time) (time.Time, bool) {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Day() == day {
			return d, true
		}
	}
	return time.Time{}, false
}

// nextAnniversary computes the next occurrence of birth's month/day, starting
// from the reference year and rolling one year forward when the candidate
// already precedes today. A month/day that does not exist in a candidate
// year (Feb 29) simply does not occur that year.
func nextAnniversary(birth time.Time, refYear int, today time.Time) (time.Time, bool) {
	for _, year := range []int{refYear, refYear + 1} {
		occ := time.Date(year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
		if occ.Month() != birth.Month() || occ.Day() != birth.Day() {
			continue // normalized away: no such date this year
		}
		if occ.Before(today) {
			continue
		}
		return occ, true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
