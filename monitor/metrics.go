package monitor

import "time"

type StageMetrics struct {
	Stage    string        `json:"stage"`
	RowsIn   int           `json:"rows_in"`
	RowsOut  int           `json:"rows_out"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

type RunMetrics struct {
	RunID         string                  `json:"run_id"`
	TotalRows     int                     `json:"total_rows"`
	TotalDuration time.Duration           `json:"total_duration"`
	StageMetrics  map[string]StageMetrics `json:"stage_metrics"`
	StartTime     time.Time               `json:"start_time"`
	EndTime       time.Time               `json:"end_time"`
}
