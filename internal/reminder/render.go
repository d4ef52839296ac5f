package reminder

import (
	"fmt"
	"strings"
)

var weekdayShort = [8]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayName returns the short English name of an ISO weekday number.
// Out-of-range numbers render as "?".
func WeekdayName(d int) string {
	if d < 1 || d > 7 {
		return "?"
	}
	return weekdayShort[d]
}

// Render formats a reminder for display in a list or management view.
func (r *Reminder) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", r.ID, r.Text)
	fmt.Fprintf(&b, "at %s, %s\n", r.Time, r.schedule())
	if r.Active {
		b.WriteString("active")
	} else {
		b.WriteString("paused")
	}
	return b.String()
}

// schedule describes the recurrence rule in one line.
func (r *Reminder) schedule() string {
	switch r.Kind {
	case KindWeekly:
		days := r.Days.Sorted()
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = WeekdayName(d)
		}
		return fmt.Sprintf("%s (%s)", r.Kind.Label(), strings.Join(names, ", "))
	case KindMonthly, KindYearly, KindBirthday, KindOnce:
		if r.Date != "" {
			return fmt.Sprintf("%s (%s)", r.Kind.Label(), r.Date)
		}
		return r.Kind.Label()
	default:
		return r.Kind.Label()
	}
}
