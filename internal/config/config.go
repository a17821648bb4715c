// Package config defines gymscore configuration and its layered loading.
package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CountingCount is how many top marks per event count toward a team score.
	CountingCount int `koanf:"counting_count"`

	// CountingOverrides maps a level name to its own counting count.
	CountingOverrides map[string]int `koanf:"counting_overrides"`

	// Locale picks the date layout used in displayed meet dates.
	Locale string `koanf:"locale"`

	// RosterFile optionally seeds the store from a YAML roster at startup.
	RosterFile string `koanf:"roster_file"`

	// StrictSeasonParse rejects labels whose years are not consecutive.
	StrictSeasonParse bool `koanf:"strict_season_parse"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		CountingCount:     3,
		CountingOverrides: map[string]int{},
		Locale:            "en-US",
	}
}

// CountingFor returns the counting count for a level.
func (c *Config) CountingFor(level string) int {
	if n, ok := c.CountingOverrides[level]; ok {
		return n
	}
	return c.CountingCount
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CountingCount < 0 {
		return fmt.Errorf("%w: counting_count must not be negative, got %d", ErrInvalidConfig, c.CountingCount)
	}
	for level, n := range c.CountingOverrides {
		if n < 0 {
			return fmt.Errorf("%w: counting_overrides[%q] must not be negative, got %d", ErrInvalidConfig, level, n)
		}
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, c.Locale, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
