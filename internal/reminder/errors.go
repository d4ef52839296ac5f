package reminder

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a reminder id that does
// not exist in the store.
var ErrNotFound = errors.New("reminder not found")

// ValidationError reports malformed user input or an invariant violation on
// a reminder field. Validation errors are recovered locally (the offending
// step is re-prompted) and never propagate past the conversation layer.
type ValidationError struct {
	Field  string // "date", "time", "days", "text", "kind"
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
