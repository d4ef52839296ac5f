package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reminder counts",
		Long: `Show total, active and per-kind reminder counts across all owners.

Example:
  chime stats
  chime stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	return cmd
}

func showStats(opts *StatsOptions, cmd *cobra.Command) error {
	st, _, err := openConfiguredStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.ReadStats(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read stats", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(stats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total:  %d\n", stats.Total)
	fmt.Fprintf(&b, "Active: %d", stats.Active)
	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&b, "\n%-9s %d", kind+":", stats.ByKind[kind])
	}
	return formatter.Success(b.String())
}
