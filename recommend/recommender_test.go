package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/feature"
	"github.com/hubenschmidt/go-lookalike/vector"
)

func tableOf(rows map[string][]float64, order []string) (*feature.Table, *vector.Matrix) {
	featureRows := make([]core.FeatureRow, 0, len(order))
	values := make([][]float64, 0, len(order))
	for _, id := range order {
		featureRows = append(featureRows, core.FeatureRow{CustomerID: id, Values: rows[id]})
		values = append(values, rows[id])
	}
	t := feature.NewTable(nil, featureRows)
	return t, vector.SimilarityMatrix(values)
}

func TestLookalikesIdenticalVectorsRankFirst(t *testing.T) {
	// A and B are identical; C points the other way entirely.
	table, matrix := tableOf(map[string][]float64{
		"A": {1, 2, 3},
		"B": {1, 2, 3},
		"C": {-3, 1, -2},
	}, []string{"A", "B", "C"})

	results := New(3).Lookalikes(table, matrix, []string{"A"})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if res.Failed() {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if len(res.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(res.Recommendations))
	}
	first := res.Recommendations[0]
	if first.CustomerID != "B" {
		t.Errorf("top lookalike = %s, want B", first.CustomerID)
	}
	if math.Abs(first.Score-1) > 1e-9 {
		t.Errorf("top score = %v, want 1", first.Score)
	}
	if second := res.Recommendations[1]; second.CustomerID != "C" || second.Score >= first.Score {
		t.Errorf("second = %s(%v), want C below B's score", second.CustomerID, second.Score)
	}
}

func TestLookalikesExcludesSelfAndSortsDescending(t *testing.T) {
	table, matrix := tableOf(map[string][]float64{
		"A": {1, 0, 0},
		"B": {0.9, 0.1, 0},
		"C": {0.5, 0.5, 0},
		"D": {0, 0, 1},
	}, []string{"A", "B", "C", "D"})

	res := New(3).Lookalikes(table, matrix, []string{"A"})[0]

	if len(res.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(res.Recommendations))
	}
	seen := make(map[string]bool)
	prev := math.Inf(1)
	for _, rec := range res.Recommendations {
		if rec.CustomerID == "A" {
			t.Error("target recommended to itself")
		}
		if seen[rec.CustomerID] {
			t.Errorf("duplicate recommendation %s", rec.CustomerID)
		}
		seen[rec.CustomerID] = true
		if rec.Score > prev {
			t.Errorf("scores not descending: %v after %v", rec.Score, prev)
		}
		prev = rec.Score
	}
}

func TestLookalikesTieBreakByRowOrder(t *testing.T) {
	// B and C are both identical to A: equal scores, so feature-table
	// order (B before C) must win.
	table, matrix := tableOf(map[string][]float64{
		"A": {1, 1},
		"B": {2, 2},
		"C": {3, 3},
	}, []string{"A", "B", "C"})

	res := New(2).Lookalikes(table, matrix, []string{"A"})[0]

	if res.Recommendations[0].CustomerID != "B" || res.Recommendations[1].CustomerID != "C" {
		t.Errorf("tie-break order = %s, %s; want B, C",
			res.Recommendations[0].CustomerID, res.Recommendations[1].CustomerID)
	}
}

func TestLookalikesMissingTarget(t *testing.T) {
	table, matrix := tableOf(map[string][]float64{
		"A": {1, 0},
		"B": {0, 1},
	}, []string{"A", "B"})

	results := New(3).Lookalikes(table, matrix, []string{"A", "GHOST", "B"})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	ghost := results[1]
	if !ghost.Failed() {
		t.Fatal("missing target did not fail")
	}
	if !errors.Is(ghost.Err, core.ErrTargetNotFound) {
		t.Errorf("err = %v, want ErrTargetNotFound", ghost.Err)
	}

	// The surrounding targets still resolve.
	if results[0].Failed() || results[2].Failed() {
		t.Error("valid targets failed alongside a missing one")
	}
}

func TestLookalikesFewerCandidatesThanK(t *testing.T) {
	table, matrix := tableOf(map[string][]float64{
		"A": {1, 0},
		"B": {1, 1},
	}, []string{"A", "B"})

	res := New(3).Lookalikes(table, matrix, []string{"A"})[0]

	if res.Failed() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Recommendations) != 1 {
		t.Errorf("got %d recommendations, want 1 (only one other customer)", len(res.Recommendations))
	}
}
