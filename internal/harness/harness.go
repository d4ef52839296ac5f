package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/chime/internal/convo"
	"github.com/roach88/chime/internal/reminder"
	"github.com/roach88/chime/internal/testutil"
)

// Exchange records one step's event label and the controller's reply.
type Exchange struct {
	Label string
	Reply convo.Reply
}

// Result is the outcome of replaying a scenario.
type Result struct {
	Scenario   *Scenario
	Transcript []Exchange
	FinalState convo.State
	Store      *testutil.MemStore
}

// Run replays the scenario against a fresh controller and in-memory store.
// It returns an error when the scenario itself is unusable (bad seed data,
// bad step payload) or when a final-state assertion fails; transcript
// differences are left to the golden comparison.
func Run(s *Scenario) (*Result, error) {
	ctx := context.Background()
	store := testutil.NewMemStore()

	for i, seed := range s.Seed {
		rem, err := seedToReminder(s, seed)
		if err != nil {
			return nil, fmt.Errorf("seed[%d]: %w", i, err)
		}
		store.Seed(*rem)
	}

	controller := convo.NewController(store)

	result := &Result{Scenario: s, Store: store}
	for i, step := range s.Steps {
		ev, label, err := eventFromStep(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		reply := controller.Handle(ctx, s.Owner, ev)
		result.Transcript = append(result.Transcript, Exchange{Label: label, Reply: reply})
	}
	result.FinalState = controller.StateOf(s.Owner)

	if err := checkAssertions(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func seedToReminder(s *Scenario, seed SeedReminder) (*reminder.Reminder, error) {
	owner := seed.Owner
	if owner == 0 {
		owner = s.Owner
	}
	kind := reminder.Kind(seed.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown kind %q", seed.Kind)
	}
	days, err := reminder.ParseWeekdays(seed.Days)
	if err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}
	tod, err := reminder.ParseTimeOfDay(seed.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}
	if seed.Date != "" {
		if _, err := reminder.ParseDate(seed.Date); err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
	}
	return &reminder.Reminder{
		OwnerID:   owner,
		Text:      seed.Text,
		Kind:      kind,
		Days:      days,
		Time:      tod,
		Date:      seed.Date,
		Active:    !seed.Paused,
		LastFired: seed.LastFired,
	}, nil
}

// eventFromStep maps a YAML step onto a controller event and the label
// the transcript prints for it.
func eventFromStep(step Step) (convo.Event, string, error) {
	switch step.Event {
	case "start_create":
		return convo.StartCreate{}, "start_create", nil
	case "select_kind":
		kind := reminder.Kind(step.Kind)
		if !kind.Valid() {
			return nil, "", fmt.Errorf("unknown kind %q", step.Kind)
		}
		return convo.SelectKind{Kind: kind}, "select_kind " + step.Kind, nil
	case "text":
		return convo.TextInput{Text: step.Text}, fmt.Sprintf("text %q", step.Text), nil
	case "toggle_day":
		return convo.ToggleDay{Day: step.Day}, fmt.Sprintf("toggle_day %d", step.Day), nil
	case "days_done":
		return convo.DaysDone{}, "days_done", nil
	case "start_edit":
		field, err := fieldFromName(step.Field)
		if err != nil {
			return nil, "", err
		}
		label := fmt.Sprintf("start_edit %s #%d", step.Field, step.Reminder)
		return convo.StartEdit{Field: field, ReminderID: step.Reminder}, label, nil
	case "cancel":
		return convo.Cancel{}, "cancel", nil
	case "delete":
		return convo.DeleteReminder{ReminderID: step.Reminder}, fmt.Sprintf("delete #%d", step.Reminder), nil
	case "toggle":
		return convo.ToggleReminder{ReminderID: step.Reminder}, fmt.Sprintf("toggle #%d", step.Reminder), nil
	case "list":
		label := "list"
		if step.ActiveOnly {
			label = "list active"
		}
		return convo.ListReminders{ActiveOnly: step.ActiveOnly}, label, nil
	}
	return nil, "", fmt.Errorf("unknown event %q", step.Event)
}

func fieldFromName(name string) (convo.Field, error) {
	switch name {
	case "text":
		return convo.FieldText, nil
	case "time":
		return convo.FieldTime, nil
	case "date":
		return convo.FieldDate, nil
	}
	return 0, fmt.Errorf("unknown edit field %q", name)
}

func checkAssertions(ctx context.Context, result *Result) error {
	s := result.Scenario
	for i, a := range s.Assertions {
		if err := checkAssertion(ctx, result, a); err != nil {
			return fmt.Errorf("%s: assertions[%d]: %w", s.Name, i, err)
		}
	}
	return nil
}

func checkAssertion(ctx context.Context, result *Result, a Assertion) error {
	switch a.Type {
	case AssertState:
		if got := result.FinalState.String(); got != a.State {
			return fmt.Errorf("final state is %s, want %s", got, a.State)
		}

	case AssertReminder:
		rem, err := result.Store.Get(ctx, a.Reminder)
		if err != nil {
			return fmt.Errorf("reminder #%d: %w", a.Reminder, err)
		}
		for field, want := range a.Expect {
			got, err := renderField(rem, field)
			if err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("reminder #%d %s is %q, want %q", a.Reminder, field, got, want)
			}
		}

	case AssertReminderCount:
		rows, err := result.Store.AllForOwner(ctx, result.Scenario.Owner)
		if err != nil {
			return err
		}
		if len(rows) != a.Count {
			return fmt.Errorf("owner has %d reminders, want %d", len(rows), a.Count)
		}

	case AssertReminderMissing:
		_, err := result.Store.Get(ctx, a.Reminder)
		if err == nil {
			return fmt.Errorf("reminder #%d still exists", a.Reminder)
		}
		if !errors.Is(err, reminder.ErrNotFound) {
			return err
		}
	}
	return nil
}

func renderField(rem *reminder.Reminder, field string) (string, error) {
	switch field {
	case "text":
		return rem.Text, nil
	case "kind":
		return string(rem.Kind), nil
	case "days":
		return rem.Days.String(), nil
	case "time":
		return rem.Time.String(), nil
	case "date":
		return rem.Date, nil
	case "active":
		return fmt.Sprintf("%t", rem.Active), nil
	case "last_fired":
		return rem.LastFired, nil
	}
	return "", fmt.Errorf("unknown reminder field %q", field)
}
