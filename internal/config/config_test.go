package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{EnvDB, EnvCatalog, EnvLogFile, EnvLogMode, EnvSnapshotKeep} {
		t.Setenv(k, "")
	}
	// Setenv("") still counts as set; LOG_MODE must stay valid.
	t.Setenv(EnvLogMode, "prod")
	t.Setenv(EnvSnapshotKeep, "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "", cfg.CatalogPath)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, DefaultSnapshotKeep, cfg.SnapshotKeep)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvDB, " /tmp/g.db ")
	t.Setenv(EnvCatalog, "/tmp/catalog.yaml")
	t.Setenv(EnvLogMode, "DEV")
	t.Setenv(EnvSnapshotKeep, "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/g.db", cfg.DBPath)
	assert.Equal(t, "/tmp/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.Equal(t, 5, cfg.SnapshotKeep)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{LogMode: "prod", SnapshotKeep: 1}, false},
		{"bad mode", Config{LogMode: "loud", SnapshotKeep: 1}, true},
		{"zero keep", Config{LogMode: "dev", SnapshotKeep: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
