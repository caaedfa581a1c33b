package pipeline

import (
	"time"

	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/monitor"
)

// Stage names, in execution order.
const (
	StageLoad       = "load"
	StageFeatures   = "features"
	StageSimilarity = "similarity"
	StageRecommend  = "recommend"
	StageWrite      = "write"
)

// Span records the timing and row counts of one executed stage.
type Span struct {
	Stage     string        `json:"stage"`
	StartTime int64         `json:"start_time"`
	EndTime   int64         `json:"end_time"`
	RowsIn    int           `json:"rows_in"`
	RowsOut   int           `json:"rows_out"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of a full pipeline run.
type Result struct {
	RunID    string              `json:"run_id"`
	Success  bool                `json:"success"`
	Results  []core.TargetResult `json:"results,omitempty"`
	Skipped  int                 `json:"skipped"`
	Spans    []Span              `json:"spans,omitempty"`
	Metrics  monitor.RunMetrics  `json:"metrics"`
	Duration time.Duration       `json:"duration"`
	Error    error               `json:"-"`
}
