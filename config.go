package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, read from tryscout.yaml when present
// and then overridden from the environment.
type Config struct {
	Addr            string        `yaml:"addr"`
	DBPath          string        `yaml:"db_path"`
	SessionTTL      string        `yaml:"session_ttl"`
	ShutdownTimeout string        `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	Logging         LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

const defaultConfigFile = "tryscout.yaml"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		DBPath:          "./try_scout.db",
		SessionTTL:      "12h",
		ShutdownTimeout: "10s",
		CORSOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if addr := os.Getenv("TRYSCOUT_ADDR"); addr != "" {
		c.Addr = addr
	}

	// Railway mounts a persistent volume; keep the archive there.
	if mountPath := os.Getenv("RAILWAY_VOLUME_MOUNT_PATH"); mountPath != "" {
		c.DBPath = filepath.Join(mountPath, "tryscout.db")
	}
	if p := os.Getenv("TRYSCOUT_DB_PATH"); p != "" {
		c.DBPath = p
	}

	if ttl := os.Getenv("TRYSCOUT_SESSION_TTL"); ttl != "" {
		c.SessionTTL = ttl
	}
	if lvl := os.Getenv("TRYSCOUT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = parseCSV(origins)
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.DBPath == "" {
		return errors.New("config: db_path is required")
	}
	if _, err := c.SessionTTLDuration(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) SessionTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid session_ttl %q", c.SessionTTL)
	}
	return d, nil
}

func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid shutdown_timeout %q", c.ShutdownTimeout)
	}
	return d, nil
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
