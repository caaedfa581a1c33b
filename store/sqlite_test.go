package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *SQLiteRunStore {
	t.Helper()
	s, err := NewSQLiteRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRunStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, ts int64) RunInfo {
	return RunInfo{
		RunID:            id,
		Timestamp:        ts,
		SourceDSN:        "testdata",
		OutputPath:       "lookalikes.csv",
		ReferenceDate:    "2025-01-01",
		TopK:             3,
		TargetCount:      20,
		RecommendedCount: 18,
		SkippedCount:     2,
		TotalElapsedMs:   42,
		Status:           "completed",
		Results:          `[{"target_id":"C0001"}]`,
	}
}

func TestSQLiteRunStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, sampleRun("run-1", 1000)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TargetCount != 20 || got.SkippedCount != 2 || got.Status != "completed" {
		t.Errorf("Get = %+v", got)
	}
	if got.Results != `[{"target_id":"C0001"}]` {
		t.Errorf("Results = %q", got.Results)
	}
}

func TestSQLiteRunStoreGetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRunStoreListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := s.Add(ctx, sampleRun(id, int64(1000+i))); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}

	runs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[2].RunID != "run-a" {
		t.Errorf("order = %s..%s, want run-c..run-a", runs[0].RunID, runs[2].RunID)
	}
}

func TestSQLiteRunStoreSummaryAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, sampleRun("run-1", 1000)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(ctx, sampleRun("run-2", 2000)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalRuns != 2 || summary.TotalTargets != 40 || summary.TotalSkipped != 4 {
		t.Errorf("Summary = %+v", summary)
	}
	if summary.AvgLatencyMs != 42 {
		t.Errorf("AvgLatencyMs = %v, want 42", summary.AvgLatencyMs)
	}

	if err := s.Delete(ctx, "run-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "run-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted run still present: %v", err)
	}
}

func TestFactoryDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := NewRunStore(path)
	if err != nil {
		t.Fatalf("NewRunStore: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*SQLiteRunStore); !ok {
		t.Errorf("NewRunStore returned %T, want *SQLiteRunStore", s)
	}
}
