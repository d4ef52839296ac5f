package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/chime/internal/reminder"
)

// kindOrder fixes the presentation order of groups in the rendered digest.
var kindOrder = map[reminder.Kind]int{
	reminder.KindDaily:    0,
	reminder.KindWeekly:   1,
	reminder.KindMonthly:  2,
	reminder.KindYearly:   3,
	reminder.KindBirthday: 4,
	reminder.KindOnce:     5,
}

// Render formats a projection into the weekly digest text.
//
// Project leaves groups in first-seen order; Render sorts them into the
// fixed kind order so the digest is stable regardless of store ordering.
func Render(groups []Group, windowStart, windowEnd time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your week ahead (%s to %s)\n",
		windowStart.Format(reminder.DateFormat), windowEnd.Format(reminder.DateFormat))

	if len(groups) == 0 {
		b.WriteString("\nNothing scheduled.\n")
		return b.String()
	}

	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return kindOrder[sorted[i].Kind] < kindOrder[sorted[j].Kind]
	})

	for _, g := range sorted {
		fmt.Fprintf(&b, "\n%s:\n", g.Kind.Label())
		for _, occ := range g.Occurrences {
			b.WriteString("  - ")
			b.WriteString(renderOccurrence(occ))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderOccurrence(occ Occurrence) string {
	rem := occ.Reminder
	switch rem.Kind {
	case reminder.KindDaily:
		return fmt.Sprintf("%s at %s, every day", rem.Text, rem.Time)
	case reminder.KindWeekly:
		days := rem.Days.Sorted()
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = reminder.WeekdayName(d)
		}
		return fmt.Sprintf("%s at %s on %s", rem.Text, rem.Time, strings.Join(names, ", "))
	case reminder.KindBirthday:
		return fmt.Sprintf("%s on %s (turns %d)", rem.Text, reminder.FormatDate(occ.On), occ.Age)
	default:
		return fmt.Sprintf("%s on %s at %s", rem.Text, reminder.FormatDate(occ.On), rem.Time)
	}
}
