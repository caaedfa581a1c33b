package vector

import (
	"math"
	"testing"
)

func TestSimilarityMatrixSymmetric(t *testing.T) {
	rows := [][]float64{
		{1, 0, 2},
		{0, 3, 1},
		{-1, 2, 0.5},
		{4, 4, 4},
	}

	m := SimilarityMatrix(rows)

	if m.Len() != len(rows) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(rows))
	}

	for i := 0; i < m.Len(); i++ {
		if math.Abs(m.At(i, i)-1) > 1e-9 {
			t.Errorf("At(%d, %d) = %v, want 1", i, i, m.At(i, i))
		}
		for j := 0; j < m.Len(); j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("At(%d, %d) = %v but At(%d, %d) = %v", i, j, m.At(i, j), j, i, m.At(j, i))
			}
			if s := m.At(i, j); s < -1-1e-9 || s > 1+1e-9 {
				t.Errorf("At(%d, %d) = %v outside [-1, 1]", i, j, s)
			}
		}
	}
}

func TestSimilarityMatrixZeroRow(t *testing.T) {
	rows := [][]float64{
		{1, 1},
		{0, 0},
	}

	m := SimilarityMatrix(rows)

	if m.At(1, 1) != 0 {
		t.Errorf("zero row diagonal = %v, want 0", m.At(1, 1))
	}
	if m.At(0, 1) != 0 || m.At(1, 0) != 0 {
		t.Errorf("similarity against zero row = %v / %v, want 0", m.At(0, 1), m.At(1, 0))
	}
}

func TestSimilarityMatrixRow(t *testing.T) {
	rows := [][]float64{
		{1, 0},
		{1, 0},
		{0, 1},
	}

	m := SimilarityMatrix(rows)
	row := m.Row(0)

	if len(row) != 3 {
		t.Fatalf("Row(0) has %d entries, want 3", len(row))
	}
	if math.Abs(row[1]-1) > 1e-9 {
		t.Errorf("Row(0)[1] = %v, want 1", row[1])
	}
	if math.Abs(row[2]) > 1e-9 {
		t.Errorf("Row(0)[2] = %v, want 0", row[2])
	}
}
