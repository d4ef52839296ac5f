package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/chime/internal/reminder"
)

// Store is the persistence surface the controller needs.
// Implemented by *store.Store and by test fakes.
type Store interface {
	Create(ctx context.Context, rem *reminder.Reminder) (int64, error)
	Get(ctx context.Context, id int64) (*reminder.Reminder, error)
	AllForOwner(ctx context.Context, owner int64) ([]reminder.Reminder, error)
	Update(ctx context.Context, id int64, patch reminder.Patch) error
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (bool, error)
}

// Prompt and status texts. The transport layer renders these verbatim.
const (
	msgChooseType   = "Choose a reminder type: daily, weekly, monthly, yearly, birthday or once."
	msgEnterText    = "Enter the reminder text:"
	msgEnterDate    = "Enter the date (DD.MM.YYYY):"
	msgEnterTime    = "Enter the time (HH:MM):"
	msgPickDays     = "Pick at least one weekday, then finish."
	msgBadDate      = "That is not a valid date. Enter the date (DD.MM.YYYY):"
	msgBadTime      = "That is not a valid time. Enter the time (HH:MM):"
	msgEmptyText    = "The reminder text cannot be empty. Enter the reminder text:"
	msgCreated      = "Reminder created."
	msgUpdated      = "Reminder updated."
	msgDeleted      = "Reminder deleted."
	msgCancelled    = "Cancelled."
	msgNotFound     = "That reminder no longer exists."
	msgStoreTrouble = "Something went wrong saving that. Please try again."
	msgNoAccess     = "You do not have access to this bot."
	msgNoReminders  = "You have no reminders."
	msgActivated    = "Reminder switched on."
	msgDeactivated  = "Reminder switched off."
)

// draft holds one owner's in-progress flow. Ephemeral: never persisted.
type draft struct {
	state State

	kind reminder.Kind
	text string
	days reminder.Weekdays
	date string

	// Edit flow target; zero when creating.
	editID    int64
	editField Field
}

// Controller is the per-owner conversation state machine.
//
// Thread-safety: Handle may be called from any goroutine; the draft map is
// mutex-guarded. Store calls made while the mutex is held are safe because
// the store serializes its own writes and never calls back into the
// controller.
type Controller struct {
	store Store

	mu     sync.Mutex
	drafts map[int64]*draft

	// owner gate: 0 allows everyone.
	allowedOwner int64
}

// Option configures a Controller.
type Option func(*Controller)

// WithAllowedOwner restricts the controller to a single owner id; events
// from anyone else get a refusal reply.
func WithAllowedOwner(owner int64) Option {
	return func(c *Controller) {
		c.allowedOwner = owner
	}
}

// NewController creates a Controller backed by the given store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		drafts: make(map[int64]*draft),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StateOf returns the owner's current state (Idle when no draft exists).
func (c *Controller) StateOf(owner int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.drafts[owner]; ok {
		return d.state
	}
	return StateIdle
}

// Handle processes one inbound event for the owner and returns the reply.
//
// Dispatch is on the (state, event) pair; events the current state does not
// accept return an empty reply and change nothing.
func (c *Controller) Handle(ctx context.Context, owner int64, ev Event) Reply {
	if c.allowedOwner != 0 && owner != c.allowedOwner {
		return Reply{Text: msgNoAccess}
	}

	// Immediate actions work from any state and leave the draft alone.
	switch e := ev.(type) {
	case DeleteReminder:
		return c.deleteReminder(ctx, owner, e.ReminderID)
	case ToggleReminder:
		return c.toggleReminder(ctx, owner, e.ReminderID)
	case ListReminders:
		return c.listReminders(ctx, owner, e.ActiveOnly)
	case Paginate:
		return Reply{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.drafts[owner]
	if !ok {
		d = &draft{state: StateIdle}
	}

	switch e := ev.(type) {
	case Cancel:
		if d.state == StateIdle {
			return Reply{}
		}
		delete(c.drafts, owner)
		return Reply{Text: msgCancelled}

	case StartCreate:
		// Starting over discards any in-flight flow.
		c.drafts[owner] = &draft{state: StateAwaitingType, days: reminder.NewWeekdays()}
		return Reply{Text: msgChooseType}

	case SelectKind:
		if d.state != StateAwaitingType || !e.Kind.Valid() {
			return Reply{}
		}
		d.kind = e.Kind
		d.state = StateAwaitingText
		return Reply{Text: msgEnterText}

	case TextInput:
		return c.handleText(ctx, owner, d, e.Text)

	case ToggleDay:
		if d.state != StateAwaitingDays || e.Day < 1 || e.Day > 7 {
			return Reply{}
		}
		d.days.Toggle(e.Day)
		return Reply{Text: selectedDaysText(d.days)}

	case DaysDone:
		if d.state != StateAwaitingDays {
			return Reply{}
		}
		if d.days.Empty() {
			return Reply{Text: msgPickDays, Reprompt: true}
		}
		d.state = StateAwaitingTime
		return Reply{Text: msgEnterTime}

	case StartEdit:
		return c.startEdit(ctx, owner, e)
	}

	return Reply{}
}

// handleText routes free text by the current state. Called with the lock
// held; d is the owner's draft (possibly a transient Idle one).
func (c *Controller) handleText(ctx context.Context, owner int64, d *draft, raw string) Reply {
	text := reminder.NormalizeText(raw)

	switch d.state {
	case StateAwaitingText:
		if text == "" {
			return Reply{Text: msgEmptyText, Reprompt: true}
		}
		d.text = text
		switch {
		case d.kind.NeedsDays():
			d.state = StateAwaitingDays
			return Reply{Text: msgPickDays}
		case d.kind.NeedsDate():
			d.state = StateAwaitingDate
			return Reply{Text: msgEnterDate}
		default:
			d.state = StateAwaitingTime
			return Reply{Text: msgEnterTime}
		}

	case StateAwaitingDate:
		date, err := reminder.ParseInputDate(text)
		if err != nil {
			return Reply{Text: msgBadDate, Reprompt: true}
		}
		d.date = date
		d.state = StateAwaitingTime
		return Reply{Text: msgEnterTime}

	case StateAwaitingTime:
		tod, err := reminder.ParseTimeOfDay(text)
		if err != nil {
			return Reply{Text: msgBadTime, Reprompt: true}
		}
		return c.commit(ctx, owner, d, tod)

	case StateEditing:
		return c.commitEdit(ctx, owner, d, text)
	}

	// Free text outside a flow is a no-op.
	return Reply{}
}

// commit finishes the creation flow (or a time-targeted edit reached
// through the creation chain) once the time of day arrives.
func (c *Controller) commit(ctx context.Context, owner int64, d *draft, tod reminder.TimeOfDay) Reply {
	if d.editID != 0 {
		if err := c.store.Update(ctx, d.editID, reminder.Patch{Time: &tod}); err != nil {
			return c.commitError(owner, err)
		}
		delete(c.drafts, owner)
		return Reply{Text: msgUpdated}
	}

	rem := &reminder.Reminder{
		OwnerID: owner,
		Text:    d.text,
		Kind:    d.kind,
		Time:    tod,
		Date:    d.date,
		Active:  true,
	}
	if d.kind.NeedsDays() {
		rem.Days = d.days.Clone()
	} else {
		rem.Days = reminder.NewWeekdays()
	}
	if err := rem.Validate(); err != nil {
		// A draft that fails final validation cannot be repaired in place.
		delete(c.drafts, owner)
		slog.Error("draft failed validation at commit", "owner", owner, "error", err)
		return Reply{Text: msgStoreTrouble}
	}

	if _, err := c.store.Create(ctx, rem); err != nil {
		return c.commitError(owner, err)
	}
	delete(c.drafts, owner)
	slog.Info("reminder created", "owner", owner, "reminder", rem.ID, "kind", rem.Kind)
	return Reply{Text: msgCreated}
}

// commitEdit applies the single-field edit flow's input.
func (c *Controller) commitEdit(ctx context.Context, owner int64, d *draft, text string) Reply {
	var patch reminder.Patch
	switch d.editField {
	case FieldText:
		if text == "" {
			return Reply{Text: msgEmptyText, Reprompt: true}
		}
		patch.Text = &text
	case FieldTime:
		tod, err := reminder.ParseTimeOfDay(text)
		if err != nil {
			return Reply{Text: msgBadTime, Reprompt: true}
		}
		patch.Time = &tod
	case FieldDate:
		date, err := reminder.ParseInputDate(text)
		if err != nil {
			return Reply{Text: msgBadDate, Reprompt: true}
		}
		patch.Date = &date
	default:
		return Reply{}
	}

	if err := c.store.Update(ctx, d.editID, patch); err != nil {
		return c.commitError(owner, err)
	}
	delete(c.drafts, owner)
	slog.Info("reminder updated", "owner", owner, "reminder", d.editID, "field", d.editField)
	return Reply{Text: msgUpdated}
}

// commitError maps a store failure during commit. Not-found resets the
// flow; anything else keeps the draft so the owner can retry the step.
func (c *Controller) commitError(owner int64, err error) Reply {
	if errors.Is(err, reminder.ErrNotFound) {
		delete(c.drafts, owner)
		return Reply{Text: msgNotFound}
	}
	slog.Error("store failure during commit", "owner", owner, "error", err)
	return Reply{Text: msgStoreTrouble, Reprompt: true}
}

// startEdit enters Editing(field) directly, bypassing the creation chain.
func (c *Controller) startEdit(ctx context.Context, owner int64, e StartEdit) Reply {
	rem, err := c.store.Get(ctx, e.ReminderID)
	if errors.Is(err, reminder.ErrNotFound) {
		delete(c.drafts, owner)
		return Reply{Text: msgNotFound}
	}
	if err != nil {
		slog.Error("store failure starting edit", "owner", owner, "error", err)
		return Reply{Text: msgStoreTrouble}
	}

	c.drafts[owner] = &draft{
		state:     StateEditing,
		editID:    e.ReminderID,
		editField: e.Field,
	}

	switch e.Field {
	case FieldText:
		return Reply{Text: fmt.Sprintf("Current text: %s\n%s", rem.Text, msgEnterText)}
	case FieldTime:
		return Reply{Text: fmt.Sprintf("Current time: %s\n%s", rem.Time, msgEnterTime)}
	case FieldDate:
		return Reply{Text: fmt.Sprintf("Current date: %s\n%s", rem.Date, msgEnterDate)}
	}
	delete(c.drafts, owner)
	return Reply{}
}

func (c *Controller) deleteReminder(ctx context.Context, owner, id int64) Reply {
	err := c.store.Delete(ctx, id)
	if errors.Is(err, reminder.ErrNotFound) {
		return Reply{Text: msgNotFound}
	}
	if err != nil {
		slog.Error("delete reminder", "owner", owner, "reminder", id, "error", err)
		return Reply{Text: msgStoreTrouble}
	}
	slog.Info("reminder deleted", "owner", owner, "reminder", id)
	return Reply{Text: msgDeleted}
}

func (c *Controller) toggleReminder(ctx context.Context, owner, id int64) Reply {
	active, err := c.store.ToggleActive(ctx, id)
	if errors.Is(err, reminder.ErrNotFound) {
		return Reply{Text: msgNotFound}
	}
	if err != nil {
		slog.Error("toggle reminder", "owner", owner, "reminder", id, "error", err)
		return Reply{Text: msgStoreTrouble}
	}
	if active {
		return Reply{Text: msgActivated}
	}
	return Reply{Text: msgDeactivated}
}

func (c *Controller) listReminders(ctx context.Context, owner int64, activeOnly bool) Reply {
	reminders, err := c.store.AllForOwner(ctx, owner)
	if err != nil {
		slog.Error("list reminders", "owner", owner, "error", err)
		return Reply{Text: msgStoreTrouble}
	}

	var parts []string
	for i := range reminders {
		if activeOnly && !reminders[i].Active {
			continue
		}
		parts = append(parts, reminders[i].Render())
	}
	if len(parts) == 0 {
		return Reply{Text: msgNoReminders}
	}
	return Reply{Text: strings.Join(parts, "\n\n")}
}

// selectedDaysText echoes the working weekday selection.
func selectedDaysText(days reminder.Weekdays) string {
	if days.Empty() {
		return "Selected days: none. " + msgPickDays
	}
	sorted := days.Sorted()
	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = reminder.WeekdayName(d)
	}
	return "Selected days: " + strings.Join(names, ", ")
}
