package vector

import "math"

// Standardize rescales each column of rows to zero mean and unit variance,
// with statistics computed over the whole batch. The input is modified in
// place and returned. Zero-variance columns are set to zero rather than
// dividing by zero; standardizing never produces NaN or Inf.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return rows
	}

	cols := len(rows[0])
	n := float64(len(rows))

	means := make([]float64, cols)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	// Population standard deviation, matching batch-statistics scalers.
	stds := make([]float64, cols)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	for _, row := range rows {
		for j := range row {
			if stds[j] == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - means[j]) / stds[j]
		}
	}

	return rows
}
