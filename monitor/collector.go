// Package monitor collects per-stage metrics for a pipeline run.
package monitor

import (
	"sync"
	"time"
)

type MetricsCollector interface {
	Record(metrics StageMetrics)
	Flush() RunMetrics
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	runID     string
	metrics   map[string]StageMetrics
	startTime time.Time
}

func NewInMemoryCollector(runID string) *InMemoryCollector {
	return &InMemoryCollector{
		runID:     runID,
		metrics:   make(map[string]StageMetrics),
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(metrics StageMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[metrics.Stage] = metrics
}

func (c *InMemoryCollector) Flush() RunMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalRows int
	var totalDuration time.Duration

	stageMetrics := make(map[string]StageMetrics, len(c.metrics))
	for k, v := range c.metrics {
		stageMetrics[k] = v
		totalRows += v.RowsOut
		totalDuration += v.Duration
	}

	return RunMetrics{
		RunID:         c.runID,
		TotalRows:     totalRows,
		TotalDuration: totalDuration,
		StageMetrics:  stageMetrics,
		StartTime:     c.startTime,
		EndTime:       time.Now(),
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]StageMetrics)
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics StageMetrics) {}

func (c *NoOpCollector) Flush() RunMetrics {
	return RunMetrics{}
}
