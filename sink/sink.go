// Package sink writes the lookalike recommendations produced by a run.
package sink

import (
	"context"

	"github.com/hubenschmidt/go-lookalike/core"
)

// Sink writes target results.
type Sink interface {
	// Write persists the results of one run, replacing any previous output.
	Write(ctx context.Context, results []core.TargetResult) error
}
