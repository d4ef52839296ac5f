package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "chime.db", cfg.DBPath)
	assert.Equal(t, "04:00", cfg.MaintenanceAt)
	assert.Equal(t, 7, cfg.DigestDay)
	assert.Equal(t, "09:00", cfg.DigestAt)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout.Std())
	assert.Zero(t, cfg.Owner)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "chime.db", cfg.DBPath)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/chime/data.db
owner: 42
maintenance_at: "03:30"
digest_day: 1
digest_at: "08:00"
retention_days: 14
send_timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/chime/data.db", cfg.DBPath)
	assert.Equal(t, int64(42), cfg.Owner)
	assert.Equal(t, "03:30", cfg.MaintenanceAt)
	assert.Equal(t, 1, cfg.DigestDay)
	assert.Equal(t, "08:00", cfg.DigestAt)
	assert.Equal(t, 14, cfg.RetentionDays)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout.Std())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
db_path: chime.db
database: typo.db
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
db_path: from-file.db
owner: 1
`)
	t.Setenv(EnvDB, "from-env.db")
	t.Setenv(EnvOwner, "99")
	t.Setenv(EnvDigestDay, "0")
	t.Setenv(EnvSendTimeout, "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, int64(99), cfg.Owner)
	assert.Equal(t, 0, cfg.DigestDay)
	assert.Equal(t, 30*time.Second, cfg.SendTimeout.Std())
}

func TestEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv(EnvOwner, "not-a-number")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvOwner)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: "db_path",
		},
		{
			name:    "bad maintenance time",
			mutate:  func(c *Config) { c.MaintenanceAt = "25:00" },
			wantErr: "maintenance_at",
		},
		{
			name:    "digest day out of range",
			mutate:  func(c *Config) { c.DigestDay = 8 },
			wantErr: "digest_day",
		},
		{
			name:    "bad digest time",
			mutate:  func(c *Config) { c.DigestAt = "nope" },
			wantErr: "digest_at",
		},
		{
			name:    "digest time ignored when disabled",
			mutate:  func(c *Config) { c.DigestDay = 0; c.DigestAt = "nope" },
			wantErr: "",
		},
		{
			name:    "zero retention",
			mutate:  func(c *Config) { c.RetentionDays = 0 },
			wantErr: "retention_days",
		},
		{
			name:    "zero send timeout",
			mutate:  func(c *Config) { c.SendTimeout = 0 },
			wantErr: "send_timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
