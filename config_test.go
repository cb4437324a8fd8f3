package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "TRYSCOUT_ADDR", "RAILWAY_VOLUME_MOUNT_PATH", "TRYSCOUT_DB_PATH",
		"TRYSCOUT_SESSION_TTL", "TRYSCOUT_LOG_LEVEL", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	ttl, err := cfg.SessionTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tryscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
db_path: /data/tries.db
session_ttl: 30m
cors_origins:
  - https://coach.example
logging:
  level: debug
  format: console
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/data/tries.db", cfg.DBPath)
	assert.Equal(t, []string{"https://coach.example"}, cfg.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "10s", cfg.ShutdownTimeout, "unset keys keep their defaults")

	ttl, err := cfg.SessionTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("RAILWAY_VOLUME_MOUNT_PATH", "/mnt/volume")
	t.Setenv("TRYSCOUT_SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, filepath.Join("/mnt/volume", "tryscout.db"), cfg.DBPath)
	assert.Equal(t, "2h", cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_ExplicitEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("TRYSCOUT_ADDR", "127.0.0.1:4000")
	t.Setenv("RAILWAY_VOLUME_MOUNT_PATH", "/mnt/volume")
	t.Setenv("TRYSCOUT_DB_PATH", "/tmp/override.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Addr)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad ttl", env: map[string]string{"TRYSCOUT_SESSION_TTL": "soon"}},
		{name: "negative ttl", yaml: "session_ttl: -5m\n"},
		{name: "bad level", env: map[string]string{"TRYSCOUT_LOG_LEVEL": "loud"}},
		{name: "empty addr", yaml: "addr: \"\"\n"},
		{name: "bad shutdown", yaml: "shutdown_timeout: never\n"},
		{name: "malformed yaml", yaml: "addr: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "tryscout.yaml")
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestParseCSV(t *testing.T) {
	assert.Nil(t, parseCSV(""))
	assert.Equal(t, []string{"a", "b"}, parseCSV(" a ,, b ,"))
}
