// Package store persists run history: one record per pipeline run with its
// configuration fingerprint, counts, timing, and serialized results.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a run is not found
var ErrNotFound = errors.New("not found")

// RunInfo represents a recorded pipeline run
type RunInfo struct {
	RunID            string `json:"run_id"`
	Timestamp        int64  `json:"timestamp"`
	SourceDSN        string `json:"source_dsn"`
	OutputPath       string `json:"output_path"`
	ReferenceDate    string `json:"reference_date"`
	TopK             int    `json:"top_k"`
	TargetCount      int    `json:"target_count"`
	RecommendedCount int    `json:"recommended_count"`
	SkippedCount     int    `json:"skipped_count"`
	TotalElapsedMs   int64  `json:"total_elapsed_ms"`
	Status           string `json:"status"`
	Results          string `json:"results,omitempty"` // JSON-encoded []core.TargetResult
}

// RunSummary contains aggregated run metrics
type RunSummary struct {
	TotalRuns        int     `json:"total_runs"`
	TotalTargets     int     `json:"total_targets"`
	TotalRecommended int     `json:"total_recommended"`
	TotalSkipped     int     `json:"total_skipped"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
}

// RunStore defines the interface for run-history persistence
type RunStore interface {
	Add(ctx context.Context, r RunInfo) error
	Get(ctx context.Context, id string) (RunInfo, error)
	List(ctx context.Context) ([]RunInfo, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (RunSummary, error)
	Close() error
}
