// Package pipeline runs the lookalike batch: load the three tables, build
// features, compute the similarity matrix, rank lookalikes per target, and
// write the output. Stages execute strictly in order; each is timed and
// recorded as a span.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hubenschmidt/go-lookalike/config"
	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/feature"
	"github.com/hubenschmidt/go-lookalike/monitor"
	"github.com/hubenschmidt/go-lookalike/recommend"
	"github.com/hubenschmidt/go-lookalike/sink"
	"github.com/hubenschmidt/go-lookalike/source"
	"github.com/hubenschmidt/go-lookalike/store"
	"github.com/hubenschmidt/go-lookalike/vector"
)

// Pipeline wires the stages for one run configuration.
type Pipeline struct {
	cfg       *config.Config
	src       source.Source
	snk       sink.Sink
	collector monitor.MetricsCollector
	runs      store.RunStore
	log       zerolog.Logger
}

// Options carries the pipeline dependencies. Source and Sink are required;
// Collector defaults to a no-op, Runs and Logger are optional.
type Options struct {
	Source    source.Source
	Sink      sink.Sink
	Collector monitor.MetricsCollector
	Runs      store.RunStore
	Logger    zerolog.Logger
}

// New creates a pipeline.
func New(cfg *config.Config, opts Options) *Pipeline {
	collector := opts.Collector
	if collector == nil {
		collector = monitor.NewNoOpCollector()
	}

	return &Pipeline{
		cfg:       cfg,
		src:       opts.Source,
		snk:       opts.Sink,
		collector: collector,
		runs:      opts.Runs,
		log:       opts.Logger,
	}
}

// Run executes the full batch. Individual targets that cannot be resolved
// are reported in the result, not returned as errors; only stage failures
// abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	var spans []Span

	p.log.Info().
		Str("run_id", runID).
		Str("source", p.cfg.Source).
		Int("targets", len(p.cfg.Targets)).
		Msg("pipeline starting")

	// Load
	stageStart := time.Now()
	customers, err := p.src.Customers(ctx)
	if err != nil {
		return p.fail(runID, spans, start, StageLoad, err)
	}
	transactions, err := p.src.Transactions(ctx)
	if err != nil {
		return p.fail(runID, spans, start, StageLoad, err)
	}
	products, err := p.src.Products(ctx)
	if err != nil {
		return p.fail(runID, spans, start, StageLoad, err)
	}
	rowsLoaded := len(customers) + len(transactions) + len(products)
	spans = p.finishStage(spans, StageLoad, stageStart, 0, rowsLoaded)

	// Features
	stageStart = time.Now()
	builder := &feature.Builder{
		ReferenceDate: p.cfg.ParsedReferenceDate(),
		JoinPolicy:    p.cfg.JoinPolicy(),
		Vocab:         p.cfg.Vocabulary,
	}
	table, err := builder.Build(customers, transactions, products)
	if err != nil {
		return p.fail(runID, spans, start, StageFeatures, err)
	}
	if table.SkippedTransactions > 0 {
		p.log.Warn().
			Int("count", table.SkippedTransactions).
			Msg("transactions referencing unknown customers or products were dropped")
	}
	spans = p.finishStage(spans, StageFeatures, stageStart, rowsLoaded, len(table.Rows))

	// Similarity
	stageStart = time.Now()
	matrix := vector.SimilarityMatrix(vector.Standardize(table.Matrix()))
	spans = p.finishStage(spans, StageSimilarity, stageStart, len(table.Rows), matrix.Len())

	// Recommend
	stageStart = time.Now()
	rec := recommend.New(p.cfg.TopK)
	results := rec.Lookalikes(table, matrix, p.cfg.Targets)
	skipped := 0
	for _, r := range results {
		if r.Failed() {
			skipped++
			p.log.Warn().Str("target", r.TargetID).Err(r.Err).Msg("target skipped")
		}
	}
	spans = p.finishStage(spans, StageRecommend, stageStart, len(p.cfg.Targets), len(results)-skipped)

	// Write
	stageStart = time.Now()
	if err := p.snk.Write(ctx, results); err != nil {
		return p.fail(runID, spans, start, StageWrite, err)
	}
	spans = p.finishStage(spans, StageWrite, stageStart, len(results)-skipped, len(results)-skipped)

	res := &Result{
		RunID:    runID,
		Success:  true,
		Results:  results,
		Skipped:  skipped,
		Spans:    spans,
		Metrics:  p.collector.Flush(),
		Duration: time.Since(start),
	}

	p.recordRun(ctx, res, "completed")

	p.log.Info().
		Str("run_id", runID).
		Int("recommended", len(results)-skipped).
		Int("skipped", skipped).
		Dur("elapsed", res.Duration).
		Msg("pipeline complete")

	return res, nil
}

// finishStage logs, records metrics, and appends the span for a stage.
func (p *Pipeline) finishStage(spans []Span, stage string, stageStart time.Time, rowsIn, rowsOut int) []Span {
	now := time.Now()
	d := now.Sub(stageStart)

	p.log.Info().
		Str("stage", stage).
		Int("rows_in", rowsIn).
		Int("rows_out", rowsOut).
		Dur("elapsed", d).
		Msg("stage complete")

	p.collector.Record(monitor.StageMetrics{
		Stage:    stage,
		RowsIn:   rowsIn,
		RowsOut:  rowsOut,
		Duration: d,
		Success:  true,
	})

	return append(spans, Span{
		Stage:     stage,
		StartTime: stageStart.UnixMilli(),
		EndTime:   now.UnixMilli(),
		RowsIn:    rowsIn,
		RowsOut:   rowsOut,
		Duration:  d,
	})
}

// fail records the failing stage and wraps the error.
func (p *Pipeline) fail(runID string, spans []Span, start time.Time, stage string, err error) (*Result, error) {
	p.log.Error().Str("stage", stage).Err(err).Msg("stage failed")

	p.collector.Record(monitor.StageMetrics{
		Stage:   stage,
		Success: false,
		Error:   err.Error(),
	})

	wrapped := core.NewPipelineError("pipeline.run", stage, err)
	res := &Result{
		RunID:    runID,
		Success:  false,
		Spans:    spans,
		Metrics:  p.collector.Flush(),
		Duration: time.Since(start),
		Error:    wrapped,
	}
	p.recordRun(context.Background(), res, "failed")
	return res, wrapped
}

// storedResult is the persisted form of a TargetResult; errors are
// flattened to strings for JSON.
type storedResult struct {
	TargetID        string                `json:"target_id"`
	Recommendations []core.Recommendation `json:"recommendations,omitempty"`
	Error           string                `json:"error,omitempty"`
}

// recordRun persists the run when a run store is configured. Persistence
// failures are logged, never fatal: the output file is already written.
func (p *Pipeline) recordRun(ctx context.Context, res *Result, status string) {
	if p.runs == nil {
		return
	}

	stored := make([]storedResult, 0, len(res.Results))
	for _, r := range res.Results {
		sr := storedResult{TargetID: r.TargetID, Recommendations: r.Recommendations}
		if r.Err != nil {
			sr.Error = r.Err.Error()
		}
		stored = append(stored, sr)
	}
	resultsJSON, err := json.Marshal(stored)
	if err != nil {
		resultsJSON = []byte("[]")
	}

	info := store.RunInfo{
		RunID:            res.RunID,
		Timestamp:        time.Now().UnixMilli(),
		SourceDSN:        p.cfg.Source,
		OutputPath:       p.cfg.Output,
		ReferenceDate:    p.cfg.ReferenceDate,
		TopK:             p.cfg.TopK,
		TargetCount:      len(p.cfg.Targets),
		RecommendedCount: len(res.Results) - res.Skipped,
		SkippedCount:     res.Skipped,
		TotalElapsedMs:   res.Duration.Milliseconds(),
		Status:           status,
		Results:          string(resultsJSON),
	}

	if err := p.runs.Add(ctx, info); err != nil {
		p.log.Error().Err(err).Str("run_id", res.RunID).Msg("record run failed")
	}
}
