package reminder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the recurrence rule of a reminder.
type Kind string

const (
	KindDaily    Kind = "daily"
	KindWeekly   Kind = "weekly"
	KindMonthly  Kind = "monthly"
	KindYearly   Kind = "yearly"
	KindBirthday Kind = "birthday"
	KindOnce     Kind = "once"
)

// Kinds lists all valid kinds in presentation order.
var Kinds = []Kind{KindDaily, KindWeekly, KindMonthly, KindYearly, KindBirthday, KindOnce}

// Valid reports whether k is one of the six recurrence kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDaily, KindWeekly, KindMonthly, KindYearly, KindBirthday, KindOnce:
		return true
	}
	return false
}

// NeedsDate reports whether the kind's payload is a calendar date.
func (k Kind) NeedsDate() bool {
	switch k {
	case KindMonthly, KindYearly, KindBirthday, KindOnce:
		return true
	}
	return false
}

// NeedsDays reports whether the kind's payload is a weekday set.
func (k Kind) NeedsDays() bool {
	return k == KindWeekly
}

// Label returns the human-readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindDaily:
		return "Daily"
	case KindWeekly:
		return "Weekly"
	case KindMonthly:
		return "Monthly"
	case KindYearly:
		return "Yearly"
	case KindBirthday:
		return "Birthday"
	case KindOnce:
		return "Once"
	}
	return string(k)
}

// Weekdays is a set of ISO weekday numbers (1=Monday..7=Sunday).
//
// The zero value (nil) is an empty set; Toggle on a nil map is invalid, use
// NewWeekdays or make the map first.
type Weekdays map[int]bool

// NewWeekdays builds a set from the given ISO weekday numbers.
func NewWeekdays(days ...int) Weekdays {
	w := make(Weekdays, len(days))
	for _, d := range days {
		w[d] = true
	}
	return w
}

// Toggle flips membership of day d: select if absent, deselect if present.
func (w Weekdays) Toggle(d int) {
	if w[d] {
		delete(w, d)
	} else {
		w[d] = true
	}
}

// Contains reports whether day d is selected.
func (w Weekdays) Contains(d int) bool {
	return w[d]
}

// Empty reports whether no day is selected.
func (w Weekdays) Empty() bool {
	return len(w) == 0
}

// Sorted returns the selected days in ascending ISO order.
func (w Weekdays) Sorted() []int {
	days := make([]int, 0, len(w))
	for d := range w {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Clone returns an independent copy of the set.
func (w Weekdays) Clone() Weekdays {
	c := make(Weekdays, len(w))
	for d := range w {
		c[d] = true
	}
	return c
}

// String encodes the set as sorted comma-joined numbers ("1,3,5").
// This is the storage encoding; an empty set encodes as "".
func (w Weekdays) String() string {
	days := w.Sorted()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseWeekdays decodes the comma-joined storage encoding.
// An empty string decodes to an empty set. Numbers outside 1..7 are rejected.
func ParseWeekdays(s string) (Weekdays, error) {
	w := make(Weekdays)
	if s == "" {
		return w, nil
	}
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 || d > 7 {
			return nil, NewValidationError("days", fmt.Sprintf("invalid weekday %q", part))
		}
		w[d] = true
	}
	return w, nil
}

// ISOWeekday returns the ISO weekday number (1=Monday..7=Sunday) of t.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// TimeOfDay is a wall-clock time at minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayFrom truncates t to minute granularity.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Reminder is a persisted notification rule.
//
// Date and LastFired use the "2006-01-02" storage encoding; both are empty
// when absent. Days is non-nil only for weekly reminders.
type Reminder struct {
	ID        int64
	OwnerID   int64
	Text      string
	Kind      Kind
	Days      Weekdays
	Time      TimeOfDay
	Date      string
	Active    bool
	LastFired string
}

// Validate enforces the payload-shape invariants before persistence:
// weekly requires a non-empty weekday set, date kinds require a parseable
// stored date, daily carries neither payload.
func (r *Reminder) Validate() error {
	if !r.Kind.Valid() {
		return NewValidationError("kind", fmt.Sprintf("unknown kind %q", r.Kind))
	}
	if r.Text == "" {
		return NewValidationError("text", "text is empty")
	}
	if t := r.Time; t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return NewValidationError("time", fmt.Sprintf("time %s out of range", t))
	}
	switch {
	case r.Kind.NeedsDays():
		if r.Days.Empty() {
			return NewValidationError("days", "weekly reminder requires at least one weekday")
		}
	case r.Kind.NeedsDate():
		if _, err := ParseDate(r.Date); err != nil {
			return NewValidationError("date", fmt.Sprintf("%s reminder requires a valid date", r.Kind))
		}
	default: // daily
		if !r.Days.Empty() {
			return NewValidationError("days", "daily reminder carries no weekday set")
		}
		if r.Date != "" {
			return NewValidationError("date", "daily reminder carries no date")
		}
	}
	return nil
}

// DateAt parses the stored date payload.
// Returns false when the date is absent or malformed; a malformed record
// must not fault callers that evaluate whole batches.
func (r *Reminder) DateAt() (time.Time, bool) {
	d, err := ParseDate(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Patch is a partial update of a reminder's mutable fields.
// Nil pointers (and a nil Days map) mean "leave unchanged".
type Patch struct {
	Text *string
	Time *TimeOfDay
	Date *string
	Days Weekdays
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Time == nil && p.Date == nil && p.Days == nil
}
