package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "10000", cfg.Procurement.BusinessUnit)
	assert.Equal(t, "P2P", cfg.Procurement.POType)
	assert.Equal(t, 10, cfg.Procurement.TopVendors)
	assert.Equal(t, []int{2021, 2022, 2023, 2024, 2025}, cfg.Procurement.ComparisonYears)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
}

func TestDefaultPassesValidation(t *testing.T) {
	cfg := Default()
	cfg.resolvePaths()
	require.NoError(t, validate.Struct(cfg))
}

func TestLoadFromFileOverlaysDefaults(t *testing.T) {
	cfg := Default()

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8080
procurement:
  business_unit: "20000"
  top_vendors: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	require.NoError(t, loadFromFile(path, cfg))

	// overridden fields
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "20000", cfg.Procurement.BusinessUnit)
	assert.Equal(t, 5, cfg.Procurement.TopVendors)
	// untouched fields keep their defaults
	assert.Equal(t, "P2P", cfg.Procurement.POType)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/srv/procdash/data"
	cfg.Paths.LogsDir = "/srv/procdash/logs"
	cfg.resolvePaths()

	assert.Equal(t, filepath.Join("/srv/procdash/data", "cached_data.json"), cfg.Procurement.CacheFile)
	assert.Equal(t, filepath.Join("/srv/procdash/logs", "app.log"), cfg.Logging.FilePath)
}

func TestResolvePaths_AbsoluteUntouched(t *testing.T) {
	cfg := Default()
	cfg.Procurement.CacheFile = "/var/cache/procdash.json"
	cfg.resolvePaths()
	assert.Equal(t, "/var/cache/procdash.json", cfg.Procurement.CacheFile)
}

func TestValidationRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "missing business unit", mutate: func(c *Config) { c.Procurement.BusinessUnit = "" }},
		{name: "missing po type", mutate: func(c *Config) { c.Procurement.POType = "" }},
		{name: "zero top vendors", mutate: func(c *Config) { c.Procurement.TopVendors = 0 }},
		{name: "zero request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, validate.Struct(cfg))
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.DataDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "nope")))
	assert.False(t, FileExists(dir))
}
