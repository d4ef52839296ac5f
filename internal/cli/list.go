package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/chime/internal/reminder"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database   string
	Owner      int64
	ActiveOnly bool
}

// reminderJSON is the JSON projection of a reminder for CLI output.
type reminderJSON struct {
	ID        int64  `json:"id"`
	Owner     int64  `json:"owner"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
	Days      string `json:"days,omitempty"`
	Time      string `json:"time"`
	Date      string `json:"date,omitempty"`
	Active    bool   `json:"active"`
	LastFired string `json:"last_fired,omitempty"`
}

func toReminderJSON(rem *reminder.Reminder) reminderJSON {
	return reminderJSON{
		ID:        rem.ID,
		Owner:     rem.OwnerID,
		Text:      rem.Text,
		Kind:      string(rem.Kind),
		Days:      rem.Days.String(),
		Time:      rem.Time.String(),
		Date:      rem.Date,
		Active:    rem.Active,
		LastFired: rem.LastFired,
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's reminders",
		Long: `List the reminders stored for one owner.

Example:
  chime list --owner 42
  chime list --owner 42 --active --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listReminders(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().Int64Var(&opts.Owner, "owner", 0, "owner id (required)")
	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "only active reminders")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func listReminders(opts *ListOptions, cmd *cobra.Command) error {
	st, _, err := openConfiguredStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	reminders, err := st.AllForOwner(context.Background(), opts.Owner)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read reminders", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if opts.Format == "json" {
		out := []reminderJSON{}
		for i := range reminders {
			if opts.ActiveOnly && !reminders[i].Active {
				continue
			}
			out = append(out, toReminderJSON(&reminders[i]))
		}
		return formatter.Success(out)
	}

	var parts []string
	for i := range reminders {
		if opts.ActiveOnly && !reminders[i].Active {
			continue
		}
		parts = append(parts, reminders[i].Render())
	}
	if len(parts) == 0 {
		return formatter.Success("No reminders.")
	}
	return formatter.Success(strings.Join(parts, "\n\n"))
}
