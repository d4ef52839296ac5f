package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/chime/internal/reminder"
)

// MaintainOptions holds flags for the maintain command.
type MaintainOptions struct {
	*RootOptions
	Database  string
	Retention int
}

// maintainResult reports what the maintenance pass changed.
type maintainResult struct {
	Deactivated int64 `json:"deactivated"`
	Purged      int64 `json:"purged"`
}

// NewMaintainCommand creates the maintain command.
func NewMaintainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaintainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run the maintenance pass now",
		Long: `Run the daily maintenance pass on demand: deactivate one-off
reminders whose date has passed, and purge inactive reminders not
fired within the retention window.

Example:
  chime maintain
  chime maintain --retention 14`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().IntVar(&opts.Retention, "retention", 0, "retention in days (overrides config)")

	return cmd
}

func runMaintenance(opts *MaintainOptions, cmd *cobra.Command) error {
	st, cfg, err := openConfiguredStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	retention := cfg.RetentionDays
	if opts.Retention > 0 {
		retention = opts.Retention
	}

	ctx := context.Background()
	today := reminder.FormatDate(time.Now())

	deactivated, err := st.DeactivateExpiredOnce(ctx, today)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to deactivate expired reminders", err)
	}
	purged, err := st.PurgeStale(ctx, today, retention)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to purge stale reminders", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	result := maintainResult{Deactivated: deactivated, Purged: purged}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("Deactivated %d expired, purged %d stale.", result.Deactivated, result.Purged))
}
