// Package lookalike computes top-K most similar customers from signup,
// transaction, and product data.
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Source = "testdata"
//	cfg.Output = "lookalikes.csv"
//	cfg.ReferenceDate = "2025-01-01"
//	cfg.Targets = []string{"C0001", "C0002"}
//
//	src, _ := source.New(cfg.Source)
//	p := pipeline.New(cfg, pipeline.Options{
//	    Source: src,
//	    Sink:   sink.NewCSVSink(cfg.Output, cfg.TopK),
//	})
//	result, err := p.Run(ctx)
package lookalike

import (
	"context"

	"github.com/hubenschmidt/go-lookalike/config"
	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/feature"
	"github.com/hubenschmidt/go-lookalike/monitor"
	"github.com/hubenschmidt/go-lookalike/pipeline"
	"github.com/hubenschmidt/go-lookalike/recommend"
	"github.com/hubenschmidt/go-lookalike/sink"
	"github.com/hubenschmidt/go-lookalike/source"
	"github.com/hubenschmidt/go-lookalike/store"
)

// Config aliases
type (
	Config    = config.Config
	LogConfig = config.LogConfig
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig loads configuration from defaults, an optional YAML file, and
// the environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Core type aliases
type (
	Customer       = core.Customer
	Transaction    = core.Transaction
	Product        = core.Product
	Recommendation = core.Recommendation
	TargetResult   = core.TargetResult
	PipelineError  = core.PipelineError
)

// Pipeline aliases
type (
	Pipeline        = pipeline.Pipeline
	PipelineOptions = pipeline.Options
	Result          = pipeline.Result
)

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg *Config, opts PipelineOptions) *Pipeline {
	return pipeline.New(cfg, opts)
}

// Run is the one-call entry point: open the source, run the pipeline, and
// write the output CSV.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	p := pipeline.New(cfg, pipeline.Options{
		Source: src,
		Sink:   sink.NewCSVSink(cfg.Output, cfg.TopK),
	})
	return p.Run(ctx)
}

// Source aliases
type (
	Source         = source.Source
	CSVSource      = source.CSVSource
	PostgresSource = source.PostgresSource
)

// NewSource creates a source from a CSV directory or postgres:// DSN.
func NewSource(dsn string) (Source, error) {
	return source.New(dsn)
}

// Feature aliases
type (
	FeatureBuilder = feature.Builder
	FeatureTable   = feature.Table
	Vocabulary     = feature.Vocabulary
)

// Recommender aliases
type Recommender = recommend.Recommender

// NewRecommender creates a recommender returning up to topK lookalikes.
func NewRecommender(topK int) *Recommender {
	return recommend.New(topK)
}

// Store aliases
type (
	RunStore = store.RunStore
	RunInfo  = store.RunInfo
)

// NewRunStore creates a run-history store from a SQLite path or
// postgres:// DSN.
func NewRunStore(dsn string) (RunStore, error) {
	return store.NewRunStore(dsn)
}

// Monitor aliases
type (
	MetricsCollector  = monitor.MetricsCollector
	InMemoryCollector = monitor.InMemoryCollector
	StageMetrics      = monitor.StageMetrics
)

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector(runID string) *InMemoryCollector {
	return monitor.NewInMemoryCollector(runID)
}
