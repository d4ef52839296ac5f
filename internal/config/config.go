// Package config loads the runtime configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/chime/internal/reminder"
)

// Duration wraps time.Duration so YAML values like "10s" parse.
type Duration time.Duration

// UnmarshalYAML decodes a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the daemon's runtime settings.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// Owner restricts the conversation surface to one owner id.
	// Zero allows everyone and disables the weekly digest, which needs
	// a recipient.
	Owner int64 `yaml:"owner"`

	// MaintenanceAt is the wall-clock time (HH:MM) of the daily
	// maintenance pass.
	MaintenanceAt string `yaml:"maintenance_at"`

	// DigestDay is the ISO weekday (1=Monday..7=Sunday) of the weekly
	// digest. Zero disables the digest.
	DigestDay int `yaml:"digest_day"`

	// DigestAt is the wall-clock time (HH:MM) of the weekly digest.
	DigestAt string `yaml:"digest_at"`

	// RetentionDays is how long inactive reminders are kept after their
	// last delivery before the maintenance pass purges them.
	RetentionDays int `yaml:"retention_days"`

	// SendTimeout bounds each notification delivery.
	SendTimeout Duration `yaml:"send_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:        "chime.db",
		MaintenanceAt: "04:00",
		DigestDay:     7,
		DigestAt:      "09:00",
		RetentionDays: 30,
		SendTimeout:   Duration(10 * time.Second),
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; defaults and env still apply.
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			decoder := yaml.NewDecoder(bytes.NewReader(data))
			decoder.KnownFields(true)
			if err := decoder.Decode(&cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment variable names. Each overrides its config field when set.
const (
	EnvDB            = "CHIME_DB"
	EnvOwner         = "CHIME_OWNER"
	EnvMaintenanceAt = "CHIME_MAINTENANCE_AT"
	EnvDigestDay     = "CHIME_DIGEST_DAY"
	EnvDigestAt      = "CHIME_DIGEST_AT"
	EnvRetentionDays = "CHIME_RETENTION_DAYS"
	EnvSendTimeout   = "CHIME_SEND_TIMEOUT"
)

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvOwner); v != "" {
		owner, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOwner, err)
		}
		c.Owner = owner
	}
	if v := os.Getenv(EnvMaintenanceAt); v != "" {
		c.MaintenanceAt = v
	}
	if v := os.Getenv(EnvDigestDay); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDigestDay, err)
		}
		c.DigestDay = day
	}
	if v := os.Getenv(EnvDigestAt); v != "" {
		c.DigestAt = v
	}
	if v := os.Getenv(EnvRetentionDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRetentionDays, err)
		}
		c.RetentionDays = days
	}
	if v := os.Getenv(EnvSendTimeout); v != "" {
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSendTimeout, err)
		}
		c.SendTimeout = Duration(dur)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if _, err := reminder.ParseTimeOfDay(c.MaintenanceAt); err != nil {
		return fmt.Errorf("maintenance_at: %w", err)
	}
	if c.DigestDay < 0 || c.DigestDay > 7 {
		return fmt.Errorf("digest_day must be 0 (disabled) or an ISO weekday 1..7, got %d", c.DigestDay)
	}
	if c.DigestDay != 0 {
		if _, err := reminder.ParseTimeOfDay(c.DigestAt); err != nil {
			return fmt.Errorf("digest_at: %w", err)
		}
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be positive, got %d", c.RetentionDays)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be positive")
	}
	return nil
}
