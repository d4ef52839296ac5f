package cli

import (
	"github.com/roach88/chime/internal/config"
	"github.com/roach88/chime/internal/store"
)

// openConfiguredStore loads the configuration and opens the database,
// letting a --db flag override the configured path. Callers own the
// returned store and must close it.
func openConfiguredStore(rootOpts *RootOptions, dbOverride string) (*store.Store, config.Config, error) {
	cfg, err := config.Load(rootOpts.Config)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if dbOverride != "" {
		cfg.DBPath = dbOverride
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, cfg, nil
}
