// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by Load.
const (
	EnvDB           = "GASBANK_DB"
	EnvCatalog      = "GASBANK_CATALOG"
	EnvLogFile      = "GASBANK_LOG_FILE"
	EnvLogMode      = "GASBANK_LOG_MODE"
	EnvSnapshotKeep = "GASBANK_SNAPSHOT_KEEP"
)

// DefaultSnapshotKeep is the number of user-state snapshots retained.
const DefaultSnapshotKeep = 20

// Config holds all application configuration.
type Config struct {
	DBPath       string // "" = resolve under the XDG data directory
	CatalogPath  string // "" = embedded sample catalog
	LogFile      string // "" = gasbank.log next to the database
	LogMode      string
	SnapshotKeep int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:       getEnv(EnvDB, ""),
		CatalogPath:  getEnv(EnvCatalog, ""),
		LogFile:      getEnv(EnvLogFile, ""),
		LogMode:      strings.ToLower(getEnv(EnvLogMode, "prod")),
		SnapshotKeep: getEnvInt(EnvSnapshotKeep, DefaultSnapshotKeep),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.LogMode {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("%s must be dev or prod, got %q", EnvLogMode, c.LogMode)
	}
	if c.SnapshotKeep <= 0 {
		return fmt.Errorf("%s must be > 0", EnvSnapshotKeep)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
