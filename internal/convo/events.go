package convo

import "github.com/roach88/chime/internal/reminder"

// State identifies the controller's position in a conversation flow.
type State int

const (
	StateIdle State = iota
	StateAwaitingType
	StateAwaitingText
	StateAwaitingDays
	StateAwaitingDate
	StateAwaitingTime
	StateEditing
)

// String returns the state name for logs and tests.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingType:
		return "awaiting_type"
	case StateAwaitingText:
		return "awaiting_text"
	case StateAwaitingDays:
		return "awaiting_days"
	case StateAwaitingDate:
		return "awaiting_date"
	case StateAwaitingTime:
		return "awaiting_time"
	case StateEditing:
		return "editing"
	}
	return "unknown"
}

// Field names a single editable reminder field.
type Field int

const (
	FieldText Field = iota + 1
	FieldTime
	FieldDate
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldText:
		return "text"
	case FieldTime:
		return "time"
	case FieldDate:
		return "date"
	}
	return "unknown"
}

// Event is one inbound conversational input. The set is closed: the
// transport layer maps raw messages and button tokens onto these values.
type Event interface {
	isEvent()
}

// StartCreate begins a creation flow, discarding any in-flight draft.
type StartCreate struct{}

// SelectKind chooses the recurrence kind during creation.
type SelectKind struct {
	Kind reminder.Kind
}

// TextInput carries free text: the reminder text, a date, or a time,
// depending on the current state.
type TextInput struct {
	Text string
}

// ToggleDay flips one ISO weekday in the working selection.
type ToggleDay struct {
	Day int
}

// DaysDone finishes weekday selection.
type DaysDone struct{}

// StartEdit begins a single-field edit of an existing reminder.
type StartEdit struct {
	Field      Field
	ReminderID int64
}

// Cancel aborts the in-flight flow from any state.
type Cancel struct{}

// DeleteReminder removes a reminder. Immediate: independent of flow state.
type DeleteReminder struct {
	ReminderID int64
}

// ToggleReminder flips a reminder's active flag. Immediate.
type ToggleReminder struct {
	ReminderID int64
}

// ListReminders requests the owner's reminder list. Immediate.
type ListReminders struct {
	ActiveOnly bool
}

// Paginate is a presentation-level token. The controller accepts it as a
// no-op; page windowing belongs to the transport layer.
type Paginate struct {
	Page int
}

func (StartCreate) isEvent()    {}
func (SelectKind) isEvent()     {}
func (TextInput) isEvent()      {}
func (ToggleDay) isEvent()      {}
func (DaysDone) isEvent()       {}
func (StartEdit) isEvent()      {}
func (Cancel) isEvent()         {}
func (DeleteReminder) isEvent() {}
func (ToggleReminder) isEvent() {}
func (ListReminders) isEvent()  {}
func (Paginate) isEvent()       {}

// Reply is the controller's answer to one event. An empty reply means the
// event was a no-op and the transport should send nothing.
type Reply struct {
	Text string
	// Reprompt marks a validation failure: the same step expects new input.
	Reprompt bool
}

// None reports whether the reply carries no message.
func (r Reply) None() bool {
	return r.Text == ""
}
