package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/chime/internal/config"
	"github.com/roach88/chime/internal/reminder"
	"github.com/roach88/chime/internal/schedule"
	"github.com/roach88/chime/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the reminder scheduler",
		Long: `Start the reminder scheduler daemon.

The scheduler opens the SQLite database (creating it if it doesn't
exist) and ticks once a minute: due reminders are delivered, a daily
maintenance pass expires and purges old reminders, and a weekly digest
summarizes the week ahead.

Example:
  chime run
  chime run --db /var/lib/chime/data.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	return cmd
}

func runScheduler(opts *RunOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	slog.Info("opening database", "path", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database ready")

	scheduler, err := buildScheduler(st, cfg, cmd.OutOrStdout())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure scheduler", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("scheduler starting", "db", cfg.DBPath, "maintenance_at", cfg.MaintenanceAt, "digest_day", cfg.DigestDay)
	fmt.Fprintln(cmd.OutOrStdout(), "Scheduler started. Press Ctrl-C to stop.")

	err = scheduler.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "scheduler error", err)
	}

	slog.Info("scheduler stopped gracefully")
	return nil
}

// buildScheduler wires the configured scheduler. The digest stays off when
// no owner is configured: it needs a recipient.
func buildScheduler(st *store.Store, cfg config.Config, out io.Writer) (*schedule.Scheduler, error) {
	maintainAt, err := reminder.ParseTimeOfDay(cfg.MaintenanceAt)
	if err != nil {
		return nil, fmt.Errorf("maintenance_at: %w", err)
	}

	scheduleOpts := []schedule.Option{
		schedule.WithMaintenanceAt(maintainAt),
		schedule.WithSendTimeout(cfg.SendTimeout.Std()),
		schedule.WithRetentionDays(cfg.RetentionDays),
	}
	if cfg.DigestDay != 0 && cfg.Owner != 0 {
		digestAt, err := reminder.ParseTimeOfDay(cfg.DigestAt)
		if err != nil {
			return nil, fmt.Errorf("digest_at: %w", err)
		}
		scheduleOpts = append(scheduleOpts, schedule.WithDigest(cfg.DigestDay, digestAt, cfg.Owner))
	}

	notifier := &ConsoleNotifier{Out: out}
	return schedule.New(st, notifier, schedule.SystemClock{}, scheduleOpts...), nil
}

// setupLogging configures the default slog handler.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
