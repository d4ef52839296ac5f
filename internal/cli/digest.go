package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/chime/internal/digest"
)

// DigestOptions holds flags for the digest command.
type DigestOptions struct {
	*RootOptions
	Database string
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DigestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the week-ahead digest",
		Long: `Print the digest of reminders due in the next seven days,
starting today. The same projection the weekly digest pass delivers.

Example:
  chime digest
  chime digest --db /var/lib/chime/data.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDigest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	return cmd
}

func showDigest(opts *DigestOptions, cmd *cobra.Command) error {
	st, _, err := openConfiguredStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	reminders, err := st.AllActive(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read reminders", err)
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	groups := digest.Project(reminders, start, end, now)

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.Success(digest.Render(groups, start, end))
}
