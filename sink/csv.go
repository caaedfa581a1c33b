package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hubenschmidt/go-lookalike/core"
)

// CSVSink writes one row per successful target with columns
// CustomerID,Lookalike_1..Lookalike_K. Each lookalike cell is formatted
// "<ID>(<score>)" with the score rounded half away from zero to 4 decimal
// places. Failed targets are omitted; the caller reports them. The output
// file is overwritten on every run.
type CSVSink struct {
	Path string
	TopK int
}

// NewCSVSink creates a CSV sink writing up to topK lookalike columns.
func NewCSVSink(path string, topK int) *CSVSink {
	return &CSVSink{Path: path, TopK: topK}
}

// Write writes the recommendation table.
func (s *CSVSink) Write(ctx context.Context, results []core.TargetResult) error {
	dir := filepath.Dir(s.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, s.TopK+1)
	header = append(header, "CustomerID")
	for i := 1; i <= s.TopK; i++ {
		header = append(header, fmt.Sprintf("Lookalike_%d", i))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, res := range results {
		if res.Failed() {
			continue
		}
		row := make([]string, 0, s.TopK+1)
		row = append(row, res.TargetID)
		for i := 0; i < s.TopK; i++ {
			if i < len(res.Recommendations) {
				row = append(row, FormatCell(res.Recommendations[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", res.TargetID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.Path, err)
	}
	return nil
}

// FormatCell renders one recommendation as "<ID>(<score>)".
func FormatCell(rec core.Recommendation) string {
	return fmt.Sprintf("%s(%.4f)", rec.CustomerID, Round4(rec.Score))
}

// Round4 rounds half away from zero to 4 decimal places. Pinned so that
// reruns over identical input produce byte-identical output.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
