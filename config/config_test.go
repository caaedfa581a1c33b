package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hubenschmidt/go-lookalike/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
source: testdata
output: out.csv
reference_date: "2025-01-01"
targets:
  - C0001
  - C0002
vocabulary:
  regions: [North, South, East, West]
`

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Source != "testdata" || cfg.Output != "out.csv" {
		t.Errorf("paths = %q, %q", cfg.Source, cfg.Output)
	}
	if cfg.ReferenceDate != "2025-01-01" {
		t.Errorf("reference_date = %q", cfg.ReferenceDate)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[0] != "C0001" {
		t.Errorf("targets = %v", cfg.Targets)
	}
	if len(cfg.Vocabulary.Regions) != 4 {
		t.Errorf("vocabulary regions = %v", cfg.Vocabulary.Regions)
	}

	// Defaults fill in what the file leaves out.
	if cfg.TopK != 3 {
		t.Errorf("top_k = %d, want default 3", cfg.TopK)
	}
	if cfg.Join != "inner" {
		t.Errorf("join = %q, want default inner", cfg.Join)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("LOOKALIKE_TOP_K", "5")
	t.Setenv("LOOKALIKE_TARGETS", "C9,C8")
	t.Setenv("LOOKALIKE_LOG__LEVEL", "debug")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TopK != 5 {
		t.Errorf("top_k = %d, want 5 from env", cfg.TopK)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[0] != "C9" || cfg.Targets[1] != "C8" {
		t.Errorf("targets = %v, want [C9 C8] from env", cfg.Targets)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug from env", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.ReferenceDate = "2025-01-01"
		cfg.Targets = []string{"C1"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing source", func(c *Config) { c.Source = "" }},
		{"missing output", func(c *Config) { c.Output = "" }},
		{"missing reference date", func(c *Config) { c.ReferenceDate = "" }},
		{"malformed reference date", func(c *Config) { c.ReferenceDate = "01/01/2025" }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
		{"no targets", func(c *Config) { c.Targets = nil }},
		{"bad join", func(c *Config) { c.Join = "cross" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParsedAccessors(t *testing.T) {
	cfg := Default()
	cfg.ReferenceDate = "2025-01-01"
	cfg.Join = "outer"

	if got := cfg.ParsedReferenceDate().Format(DateLayout); got != "2025-01-01" {
		t.Errorf("ParsedReferenceDate = %s", got)
	}
	if cfg.JoinPolicy() != core.JoinOuter {
		t.Errorf("JoinPolicy = %v, want outer", cfg.JoinPolicy())
	}
}
