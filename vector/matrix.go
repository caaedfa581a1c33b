package vector

// Matrix is a dense pairwise similarity matrix. Values are in [-1, 1];
// the diagonal is 1 for every row with a nonzero vector and 0 otherwise.
type Matrix struct {
	n      int
	values []float64
}

// SimilarityMatrix computes the full pairwise cosine-similarity matrix for
// the given vectors. The matrix is symmetric and each pair is computed once
// and mirrored. This is O(n²) in time and memory: fine for thousands of
// customers, the wrong tool beyond that.
func SimilarityMatrix(rows [][]float64) *Matrix {
	n := len(rows)
	m := &Matrix{n: n, values: make([]float64, n*n)}

	for i := 0; i < n; i++ {
		if !IsZero(rows[i]) {
			m.values[i*n+i] = 1
		}
		for j := i + 1; j < n; j++ {
			s := CosineSimilarity(rows[i], rows[j])
			m.values[i*n+j] = s
			m.values[j*n+i] = s
		}
	}

	return m
}

// Len returns the number of rows (and columns).
func (m *Matrix) Len() int {
	return m.n
}

// At returns the similarity between rows i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*m.n+j]
}

// Row returns row i as a slice. The slice aliases the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	return m.values[i*m.n : (i+1)*m.n]
}
