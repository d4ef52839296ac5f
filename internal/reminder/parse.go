package reminder

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Date encodings. Storage always uses DateFormat; conversational input uses
// InputDateFormat ("31.12.2026").
const (
	DateFormat      = "2006-01-02"
	InputDateFormat = "02.01.2006"
	timeFormat      = "15:04"
)

// ParseDate parses a storage-encoded date ("2006-01-02").
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", "invalid date")
	}
	return d, nil
}

// FormatDate encodes t in the storage encoding, dropping the time part.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseInputDate parses user-entered "DD.MM.YYYY" input and returns the
// storage encoding. Parsing is strict: "31.02.2024" is rejected, not clamped.
func ParseInputDate(s string) (string, error) {
	d, err := time.Parse(InputDateFormat, strings.TrimSpace(s))
	if err != nil {
		return "", NewValidationError("date", "invalid date, expected DD.MM.YYYY")
	}
	return d.Format(DateFormat), nil
}

// ParseTimeOfDay parses strict 24h "HH:MM" input.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeFormat, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, NewValidationError("time", "invalid time, expected HH:MM")
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// NormalizeText canonicalizes user-entered reminder text: NFC normalization
// plus surrounding whitespace trim. Applied once, before the text is stored,
// so equal-looking inputs compare equal in the store.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
