// Package config defines the run configuration and its layered loading:
// built-in defaults, then an optional YAML file, then LOOKALIKE_-prefixed
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/feature"
)

// DateLayout is the wire format for the reference date.
const DateLayout = "2006-01-02"

// Config is the full configuration for one pipeline run.
type Config struct {
	// Source is a directory of CSV files or a postgres:// DSN.
	Source string `koanf:"source"`

	// Output is the path of the recommendations CSV, overwritten per run.
	Output string `koanf:"output"`

	// StoreDSN enables run-history persistence when set: a SQLite path or
	// a postgres:// DSN.
	StoreDSN string `koanf:"store_dsn"`

	// ReferenceDate anchors tenure, format YYYY-MM-DD. Required: tenure is
	// relative to a pinned date, never "now".
	ReferenceDate string `koanf:"reference_date"`

	// TopK is the number of lookalikes per target.
	TopK int `koanf:"top_k"`

	// Targets is the list of customer IDs to recommend for.
	Targets []string `koanf:"targets"`

	// Join is "inner" or "outer".
	Join string `koanf:"join"`

	// Vocabulary pins one-hot columns; empty lists are derived per run.
	Vocabulary feature.Vocabulary `koanf:"vocabulary"`

	Log LogConfig `koanf:"log"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// Default returns the built-in defaults, overridden by file and env layers.
func Default() *Config {
	return &Config{
		Source: "data",
		Output: "lookalikes.csv",
		TopK:   3,
		Join:   "inner",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration and names the offending field.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("%w: source is required", core.ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output is required", core.ErrInvalidConfig)
	}
	if c.ReferenceDate == "" {
		return fmt.Errorf("%w: reference_date is required", core.ErrInvalidConfig)
	}
	if _, err := time.Parse(DateLayout, c.ReferenceDate); err != nil {
		return fmt.Errorf("%w: reference_date %q is not YYYY-MM-DD", core.ErrInvalidConfig, c.ReferenceDate)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", core.ErrInvalidConfig, c.TopK)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", core.ErrInvalidConfig)
	}
	if _, ok := core.ParseJoinPolicy(c.Join); !ok {
		return fmt.Errorf("%w: join must be inner or outer, got %q", core.ErrInvalidConfig, c.Join)
	}
	return nil
}

// ParsedReferenceDate returns the reference date as a time.Time. Validate
// must have succeeded first.
func (c *Config) ParsedReferenceDate() time.Time {
	t, _ := time.Parse(DateLayout, c.ReferenceDate)
	return t
}

// JoinPolicy returns the parsed join policy. Validate must have succeeded
// first.
func (c *Config) JoinPolicy() core.JoinPolicy {
	p, _ := core.ParseJoinPolicy(c.Join)
	return p
}
