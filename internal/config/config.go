package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/linearcal/internal/sync"
)

// Environment variables recognized by ApplyEnv. They override values from
// the config file, matching the original deployment's env-only interface.
const (
	EnvLinearAPIKey = "LINEAR_API_KEY"
	EnvCalendarID   = "GCAL_CALENDAR_ID"
	EnvTimezone     = "TIMEZONE"
	EnvWindowDays   = "SEARCH_WINDOW_DAYS"
	EnvSchedule     = "SYNC_SCHEDULE"
)

// LinearConfig configures the Linear source.
type LinearConfig struct {
	// APIKey authenticates against the Linear GraphQL API.
	// Usually supplied via LINEAR_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`

	// Endpoint overrides the GraphQL endpoint. Empty means the public API.
	Endpoint string `yaml:"endpoint"`

	// PageSize is the GraphQL page size (max 250).
	PageSize int `yaml:"page_size"`
}

// CalendarConfig configures the target calendar.
type CalendarConfig struct {
	// ID is the target calendar identifier. "primary" denotes the
	// authenticated principal's primary calendar.
	ID string `yaml:"id"`

	// Timezone is the IANA zone written on timed events.
	Timezone string `yaml:"timezone"`

	// WindowDays is the half-width in days of the reconciliation window.
	WindowDays int `yaml:"window_days"`
}

// RetryConfig bounds the write retry loop.
type RetryConfig struct {
	Attempts    int `yaml:"attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
	MaxDelayMS  int `yaml:"max_delay_ms"`
}

// ServeConfig configures the long-running serve mode.
type ServeConfig struct {
	// Schedule is a cron expression for periodic runs (e.g. "@hourly").
	Schedule string `yaml:"schedule"`

	// Listen is the address of the health endpoint server.
	Listen string `yaml:"listen"`

	// MetricsListen is the address of the Prometheus metrics server.
	MetricsListen string `yaml:"metrics_listen"`
}

// Config is the top-level application configuration.
type Config struct {
	Linear   LinearConfig   `yaml:"linear"`
	Calendar CalendarConfig `yaml:"calendar"`
	Retry    RetryConfig    `yaml:"retry"`
	Serve    ServeConfig    `yaml:"serve"`
}

// DefaultConfig returns the in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Linear: LinearConfig{
			PageSize: 100,
		},
		Calendar: CalendarConfig{
			ID:         "primary",
			Timezone:   "UTC",
			WindowDays: 365,
		},
		Retry: RetryConfig{
			Attempts:    3,
			BaseDelayMS: 500,
			MaxDelayMS:  5000,
		},
		Serve: ServeConfig{
			Schedule:      "@hourly",
			Listen:        "127.0.0.1:8080",
			MetricsListen: ":9090",
		},
	}
}

// Load reads the YAML config at path, layered over the defaults, then
// applies environment overrides. An empty path or a missing file yields the
// defaults plus environment: the tool is fully configurable without a file.
func Load(path string) (*Config, error) {
	conf := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env-only configuration
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, conf); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	conf.ApplyEnv()
	return conf, nil
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLinearAPIKey); v != "" {
		c.Linear.APIKey = v
	}
	if v := os.Getenv(EnvCalendarID); v != "" {
		c.Calendar.ID = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Calendar.Timezone = v
	}
	if v := os.Getenv(EnvWindowDays); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			c.Calendar.WindowDays = days
		}
	}
	if v := os.Getenv(EnvSchedule); v != "" {
		c.Serve.Schedule = v
	}
}

// Validate checks that the configuration is usable for a sync run.
func (c *Config) Validate() error {
	if c.Linear.APIKey == "" {
		return fmt.Errorf("linear api key is required (set %s)", EnvLinearAPIKey)
	}
	if c.Calendar.ID == "" {
		return fmt.Errorf("calendar id cannot be empty")
	}
	if c.Calendar.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive, got %d", c.Calendar.WindowDays)
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Calendar.Timezone, err)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	return nil
}

// RetryPolicy converts the retry configuration into a sync.RetryPolicy.
func (c *Config) RetryPolicy() sync.RetryPolicy {
	return sync.RetryPolicy{
		Attempts:  c.Retry.Attempts,
		BaseDelay: time.Duration(c.Retry.BaseDelayMS) * time.Millisecond,
		MaxDelay:  time.Duration(c.Retry.MaxDelayMS) * time.Millisecond,
	}
}
