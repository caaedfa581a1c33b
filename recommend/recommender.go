// Package recommend ranks customers by similarity and produces the top-K
// lookalikes for each requested target.
package recommend

import (
	"fmt"
	"sort"

	"github.com/hubenschmidt/go-lookalike/core"
	"github.com/hubenschmidt/go-lookalike/feature"
	"github.com/hubenschmidt/go-lookalike/vector"
)

// Recommender ranks lookalikes over a precomputed similarity matrix.
type Recommender struct {
	TopK int
}

// New creates a recommender returning up to topK lookalikes per target.
func New(topK int) *Recommender {
	return &Recommender{TopK: topK}
}

// Lookalikes returns one TargetResult per requested target ID, in input
// order. A target missing from the feature table yields a result carrying
// core.ErrTargetNotFound; it never aborts the batch.
func (r *Recommender) Lookalikes(table *feature.Table, matrix *vector.Matrix, targets []string) []core.TargetResult {
	results := make([]core.TargetResult, 0, len(targets))
	for _, target := range targets {
		results = append(results, r.lookalikesFor(table, matrix, target))
	}
	return results
}

func (r *Recommender) lookalikesFor(table *feature.Table, matrix *vector.Matrix, target string) core.TargetResult {
	row, ok := table.Lookup(target)
	if !ok {
		return core.TargetResult{
			TargetID: target,
			Err:      fmt.Errorf("%w: %s", core.ErrTargetNotFound, target),
		}
	}

	scores := matrix.Row(row)
	candidates := make([]int, 0, matrix.Len()-1)
	for i := 0; i < matrix.Len(); i++ {
		if i != row {
			candidates = append(candidates, i)
		}
	}

	// Descending score; equal scores keep feature-table order (ascending
	// customer ID), which pins output across runs.
	sort.SliceStable(candidates, func(a, b int) bool {
		return scores[candidates[a]] > scores[candidates[b]]
	})

	k := r.TopK
	if k > len(candidates) {
		k = len(candidates)
	}

	recs := make([]core.Recommendation, 0, k)
	for _, i := range candidates[:k] {
		recs = append(recs, core.Recommendation{
			CustomerID: table.Rows[i].CustomerID,
			Score:      scores[i],
		})
	}

	return core.TargetResult{TargetID: target, Recommendations: recs}
}
