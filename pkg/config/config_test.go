package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://wago.tools/api/casc", cfg.Endpoint.BaseURL)
	assert.Equal(t, 60, cfg.Download.TimeoutSeconds)
	assert.Equal(t, 6, cfg.Download.MaxAttempts)
	assert.Equal(t, 1.5, cfg.Download.BackoffSeconds)
	assert.Equal(t, 1, cfg.Download.Concurrent)
	assert.Equal(t, MapAny, cfg.Filter.Map)
	assert.Equal(t, NameCaseAsIs, cfg.Filter.NameCase)
	assert.Equal(t, 20000, cfg.Safety.MaxCount)
	assert.False(t, cfg.Safety.Force)

	require.NoError(t, cfg.Validate())
}

func TestDurationHelpers(t *testing.T) {
	d := DownloadConfig{TimeoutSeconds: 60, BackoffSeconds: 1.5, SleepSeconds: 0.2}

	assert.Equal(t, time.Minute, d.Timeout())
	assert.Equal(t, 1500*time.Millisecond, d.Backoff())
	assert.Equal(t, 200*time.Millisecond, d.Sleep())
}

func TestAllowMap(t *testing.T) {
	assert.Equal(t, "", FilterConfig{Map: MapAny}.AllowMap())
	assert.Equal(t, "kalimdor", FilterConfig{Map: MapKalimdor}.AllowMap())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adtfetch.yaml")
	content := `
endpoint:
  base_url: https://example.test/api/casc
download:
  timeout_seconds: 30
  max_attempts: 3
filter:
  map: kalimdor
output:
  directory: /tmp/tiles
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/api/casc", cfg.Endpoint.BaseURL)
	assert.Equal(t, 30, cfg.Download.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Download.MaxAttempts)
	assert.Equal(t, "kalimdor", cfg.Filter.Map)
	assert.Equal(t, "/tmp/tiles", cfg.Output.Directory)
	// Untouched values keep their defaults
	assert.Equal(t, 1.5, cfg.Download.BackoffSeconds)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADTFETCH_OUTPUT_DIR", "/data/tiles")
	t.Setenv("ADTFETCH_MAP", "AZEROTH")
	t.Setenv("ADTFETCH_RETRIES", "4")
	t.Setenv("ADTFETCH_BACKOFF", "0.5")
	t.Setenv("ADTFETCH_CONCURRENT", "3")
	t.Setenv("ADTFETCH_TOKEN", "secret-token")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "/data/tiles", cfg.Output.Directory)
	assert.Equal(t, "azeroth", cfg.Filter.Map)
	assert.Equal(t, 4, cfg.Download.MaxAttempts)
	assert.Equal(t, 0.5, cfg.Download.BackoffSeconds)
	assert.Equal(t, 3, cfg.Download.Concurrent)
	assert.Equal(t, "secret-token", cfg.Endpoint.Token)
}

func TestEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ADTFETCH_RETRIES", "many")
	t.Setenv("ADTFETCH_TIMEOUT", "-2")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 6, cfg.Download.MaxAttempts)
	assert.Equal(t, 60, cfg.Download.TimeoutSeconds)
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.applyFlags(map[string]interface{}{
		"out":        "tiles",
		"map":        "Kalimdor",
		"name-case":  NameCaseCapitalize,
		"timeout":    15,
		"retries":    2,
		"backoff":    0.1,
		"sleep":      0.2,
		"concurrent": 4,
		"max-count":  100,
		"force":      true,
	})

	assert.Equal(t, "tiles", cfg.Output.Directory)
	assert.Equal(t, "kalimdor", cfg.Filter.Map)
	assert.Equal(t, NameCaseCapitalize, cfg.Filter.NameCase)
	assert.Equal(t, 15, cfg.Download.TimeoutSeconds)
	assert.Equal(t, 2, cfg.Download.MaxAttempts)
	assert.Equal(t, 0.1, cfg.Download.BackoffSeconds)
	assert.Equal(t, 0.2, cfg.Download.SleepSeconds)
	assert.Equal(t, 4, cfg.Download.Concurrent)
	assert.Equal(t, 100, cfg.Safety.MaxCount)
	assert.True(t, cfg.Safety.Force)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Endpoint.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Download.TimeoutSeconds = 0 }},
		{"zero attempts", func(c *Config) { c.Download.MaxAttempts = 0 }},
		{"negative backoff", func(c *Config) { c.Download.BackoffSeconds = -1 }},
		{"negative sleep", func(c *Config) { c.Download.SleepSeconds = -0.1 }},
		{"zero concurrent", func(c *Config) { c.Download.Concurrent = 0 }},
		{"zero max count", func(c *Config) { c.Safety.MaxCount = 0 }},
		{"bad map", func(c *Config) { c.Filter.Map = "outland" }},
		{"bad name case", func(c *Config) { c.Filter.NameCase = "upper" }},
		{"empty output dir", func(c *Config) { c.Output.Directory = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
