package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted conversation.
// Steps are replayed in order against a fresh controller and store; the
// replies form the transcript, and the assertions run on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Owner is the owner id the events arrive as. Defaults to 1.
	Owner int64 `yaml:"owner,omitempty"`

	// Seed lists reminders inserted into the store before the first step.
	Seed []SeedReminder `yaml:"seed,omitempty"`

	// Steps is the event sequence of the conversation.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final controller and store state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SeedReminder describes a pre-existing reminder in scenario YAML.
// Field encodings match the store: days "1,4", time "HH:MM",
// date "2006-01-02".
type SeedReminder struct {
	Owner     int64  `yaml:"owner,omitempty"`
	Text      string `yaml:"text"`
	Kind      string `yaml:"kind"`
	Days      string `yaml:"days,omitempty"`
	Time      string `yaml:"time"`
	Date      string `yaml:"date,omitempty"`
	Paused    bool   `yaml:"paused,omitempty"`
	LastFired string `yaml:"last_fired,omitempty"`
}

// Step is one inbound event. Event selects the kind; the remaining
// fields carry its payload and are only read where they apply.
type Step struct {
	// Event is one of: start_create, select_kind, text, toggle_day,
	// days_done, start_edit, cancel, delete, toggle, list.
	Event string `yaml:"event"`

	// Kind is the reminder kind for select_kind.
	Kind string `yaml:"kind,omitempty"`

	// Text is the free-text payload for text.
	Text string `yaml:"text,omitempty"`

	// Day is the ISO weekday for toggle_day.
	Day int `yaml:"day,omitempty"`

	// Field is the target field for start_edit: text, time or date.
	Field string `yaml:"field,omitempty"`

	// Reminder is the target id for start_edit, delete and toggle.
	Reminder int64 `yaml:"reminder,omitempty"`

	// ActiveOnly filters the list event to active reminders.
	ActiveOnly bool `yaml:"active_only,omitempty"`
}

// Assertion validates final state.
type Assertion struct {
	// Type is one of:
	// - "state": the owner's final conversation state
	// - "reminder": field subset match on one stored reminder
	// - "reminder_count": total stored reminders
	// - "reminder_missing": the reminder id no longer exists
	Type string `yaml:"type"`

	// State is the expected state name (used by state).
	State string `yaml:"state,omitempty"`

	// Reminder is the target id (used by reminder, reminder_missing).
	Reminder int64 `yaml:"reminder,omitempty"`

	// Expect maps field names to expected rendered values (used by
	// reminder). Subset match: only named fields are checked.
	Expect map[string]string `yaml:"expect,omitempty"`

	// Count is the expected reminder count (used by reminder_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertState           = "state"
	AssertReminder        = "reminder"
	AssertReminderCount   = "reminder_count"
	AssertReminderMissing = "reminder_missing"
)

var knownEvents = map[string]bool{
	"start_create": true,
	"select_kind":  true,
	"text":         true,
	"toggle_day":   true,
	"days_done":    true,
	"start_edit":   true,
	"cancel":       true,
	"delete":       true,
	"toggle":       true,
	"list":         true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos in scenario files fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	if scenario.Owner == 0 {
		scenario.Owner = 1
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, seed := range s.Seed {
		if seed.Text == "" {
			return fmt.Errorf("seed[%d]: text is required", i)
		}
		if seed.Kind == "" {
			return fmt.Errorf("seed[%d]: kind is required", i)
		}
		if seed.Time == "" {
			return fmt.Errorf("seed[%d]: time is required", i)
		}
	}

	for i, step := range s.Steps {
		if !knownEvents[step.Event] {
			return fmt.Errorf("steps[%d]: unknown event %q", i, step.Event)
		}
		switch step.Event {
		case "select_kind":
			if step.Kind == "" {
				return fmt.Errorf("steps[%d]: kind is required for select_kind", i)
			}
		case "toggle_day":
			if step.Day == 0 {
				return fmt.Errorf("steps[%d]: day is required for toggle_day", i)
			}
		case "start_edit":
			if step.Field == "" {
				return fmt.Errorf("steps[%d]: field is required for start_edit", i)
			}
			if step.Reminder == 0 {
				return fmt.Errorf("steps[%d]: reminder is required for start_edit", i)
			}
		case "delete", "toggle":
			if step.Reminder == 0 {
				return fmt.Errorf("steps[%d]: reminder is required for %s", i, step.Event)
			}
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertState:
			if a.State == "" {
				return fmt.Errorf("assertions[%d]: state is required for state", i)
			}
		case AssertReminder:
			if a.Reminder == 0 {
				return fmt.Errorf("assertions[%d]: reminder is required for reminder", i)
			}
			if len(a.Expect) == 0 {
				return fmt.Errorf("assertions[%d]: expect is required for reminder", i)
			}
		case AssertReminderCount:
			if a.Count < 0 {
				return fmt.Errorf("assertions[%d]: count must be non-negative", i)
			}
		case AssertReminderMissing:
			if a.Reminder == 0 {
				return fmt.Errorf("assertions[%d]: reminder is required for reminder_missing", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}

	return nil
}
