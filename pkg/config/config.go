package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Map filter values accepted by the tile filter
const (
	MapAny      = "any"
	MapKalimdor = "kalimdor"
	MapAzeroth  = "azeroth"
)

// Name case normalization modes
const (
	NameCaseAsIs       = "as-is"
	NameCaseCapitalize = "capitalize"
	NameCaseLower      = "lower"
)

// Config holds all configuration options for the tile fetcher
type Config struct {
	// Endpoint settings for the CASC file-delivery API
	Endpoint EndpointConfig `yaml:"endpoint"`

	// Download tunables
	Download DownloadConfig `yaml:"download"`

	// Tile acceptance filtering
	Filter FilterConfig `yaml:"filter"`

	// Safety limits for range mode
	Safety SafetyConfig `yaml:"safety"`

	// Output settings
	Output OutputConfig `yaml:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// EndpointConfig holds remote API configuration
type EndpointConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Token     string `yaml:"token"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxAttempts    int     `yaml:"max_attempts"`
	BackoffSeconds float64 `yaml:"backoff_seconds"`
	SleepSeconds   float64 `yaml:"sleep_seconds"`
	Concurrent     int     `yaml:"concurrent"`
}

// Timeout returns the per-request timeout as a duration
func (d DownloadConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Backoff returns the backoff base as a duration
func (d DownloadConfig) Backoff() time.Duration {
	return time.Duration(d.BackoffSeconds * float64(time.Second))
}

// Sleep returns the inter-request throttle as a duration
func (d DownloadConfig) Sleep() time.Duration {
	return time.Duration(d.SleepSeconds * float64(time.Second))
}

// FilterConfig holds tile acceptance configuration
type FilterConfig struct {
	Map      string `yaml:"map"`
	NameCase string `yaml:"name_case"`
}

// AllowMap returns the map filter, or "" when any map is accepted
func (f FilterConfig) AllowMap() string {
	if f.Map == MapAny {
		return ""
	}
	return f.Map
}

// SafetyConfig guards range mode against sweeping huge ID spaces
type SafetyConfig struct {
	MaxCount int  `yaml:"max_count"`
	Force    bool `yaml:"force"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
// Tunable defaults match the polite-download posture: six attempts,
// 1.5s linear backoff and a 20000-ID safety cap.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			BaseURL:   "https://wago.tools/api/casc",
			UserAgent: "adtfetch/1.0",
		},
		Download: DownloadConfig{
			TimeoutSeconds: 60,
			MaxAttempts:    6,
			BackoffSeconds: 1.5,
			SleepSeconds:   0,
			Concurrent:     1,
		},
		Filter: FilterConfig{
			Map:      MapAny,
			NameCase: NameCaseAsIs,
		},
		Safety: SafetyConfig{
			MaxCount: 20000,
			Force:    false,
		},
		Output: OutputConfig{
			Directory: "adts_out",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, environment
// variables and finally command-line flag overrides, in that order.
func Load(configFile string, flags map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()

	path := configFile
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			// An explicitly requested file must exist
			if configFile != "" || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfigPath returns $HOME/.adtfetch.yaml when present
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adtfetch.yaml")
}

// loadFromFile merges values from a YAML config file
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from ADTFETCH_* environment variables.
// A .env file in the working directory is honored when present.
func (c *Config) LoadFromEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv("ADTFETCH_BASE_URL"); v != "" {
		c.Endpoint.BaseURL = v
	}
	if v := os.Getenv("ADTFETCH_USER_AGENT"); v != "" {
		c.Endpoint.UserAgent = v
	}
	if v := os.Getenv("ADTFETCH_TOKEN"); v != "" {
		c.Endpoint.Token = v
	}
	if v := os.Getenv("ADTFETCH_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("ADTFETCH_MAP"); v != "" {
		c.Filter.Map = strings.ToLower(v)
	}
	if v := os.Getenv("ADTFETCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ADTFETCH_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Download.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("ADTFETCH_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Download.MaxAttempts = n
		}
	}
	if v := os.Getenv("ADTFETCH_BACKOFF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Download.BackoffSeconds = f
		}
	}
	if v := os.Getenv("ADTFETCH_SLEEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Download.SleepSeconds = f
		}
	}
	if v := os.Getenv("ADTFETCH_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Download.Concurrent = n
		}
	}
	if v := os.Getenv("ADTFETCH_MAX_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Safety.MaxCount = n
		}
	}

	return nil
}

// applyFlags overlays values supplied on the command line
func (c *Config) applyFlags(flags map[string]interface{}) {
	for key, value := range flags {
		switch key {
		case "out":
			if v, ok := value.(string); ok && v != "" {
				c.Output.Directory = v
			}
		case "map":
			if v, ok := value.(string); ok && v != "" {
				c.Filter.Map = strings.ToLower(v)
			}
		case "name-case":
			if v, ok := value.(string); ok && v != "" {
				c.Filter.NameCase = v
			}
		case "timeout":
			if v, ok := value.(int); ok && v > 0 {
				c.Download.TimeoutSeconds = v
			}
		case "retries":
			if v, ok := value.(int); ok && v > 0 {
				c.Download.MaxAttempts = v
			}
		case "backoff":
			if v, ok := value.(float64); ok && v >= 0 {
				c.Download.BackoffSeconds = v
			}
		case "sleep":
			if v, ok := value.(float64); ok && v >= 0 {
				c.Download.SleepSeconds = v
			}
		case "concurrent":
			if v, ok := value.(int); ok && v > 0 {
				c.Download.Concurrent = v
			}
		case "max-count":
			if v, ok := value.(int); ok && v > 0 {
				c.Safety.MaxCount = v
			}
		case "force":
			if v, ok := value.(bool); ok {
				c.Safety.Force = v
			}
		case "log-level":
			if v, ok := value.(string); ok && v != "" {
				c.Logging.Level = v
			}
		}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Endpoint.BaseURL == "" {
		return fmt.Errorf("endpoint base URL is required")
	}
	if c.Download.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Download.TimeoutSeconds)
	}
	if c.Download.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.Download.MaxAttempts)
	}
	if c.Download.BackoffSeconds < 0 {
		return fmt.Errorf("backoff must not be negative, got %g", c.Download.BackoffSeconds)
	}
	if c.Download.SleepSeconds < 0 {
		return fmt.Errorf("sleep must not be negative, got %g", c.Download.SleepSeconds)
	}
	if c.Download.Concurrent < 1 {
		return fmt.Errorf("concurrent must be at least 1, got %d", c.Download.Concurrent)
	}
	if c.Safety.MaxCount <= 0 {
		return fmt.Errorf("safety max count must be positive, got %d", c.Safety.MaxCount)
	}
	switch c.Filter.Map {
	case MapAny, MapKalimdor, MapAzeroth:
	default:
		return fmt.Errorf("unknown map filter %q (want %s, %s or %s)",
			c.Filter.Map, MapKalimdor, MapAzeroth, MapAny)
	}
	switch c.Filter.NameCase {
	case NameCaseAsIs, NameCaseCapitalize, NameCaseLower:
	default:
		return fmt.Errorf("unknown name case mode %q", c.Filter.NameCase)
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
