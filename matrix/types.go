// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by Dense and Sparse.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: Rows/Cols are O(1); At/Set are O(1) for Dense and
// O(log nnz(col)) for Sparse; Clone copies the storage.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Triplets is a coordinate-form list of entries: entry k sits at
// (Row[k], Col[k]) with value Val[k]. Indices are 0-based. Duplicate
// coordinates are summed when the triplets are compressed into a Sparse.
type Triplets struct {
	Row []int     // row index per entry
	Col []int     // column index per entry
	Val []float64 // value per entry
}

// Append adds a single (i, j, v) entry.
// Complexity: amortized O(1).
func (t *Triplets) Append(i, j int, v float64) {
	t.Row = append(t.Row, i)
	t.Col = append(t.Col, j)
	t.Val = append(t.Val, v)
}

// Len returns the number of entries (duplicates included).
func (t *Triplets) Len() int { return len(t.Val) }

// validate checks that all three slices have the same length.
func (t *Triplets) validate() error {
	if len(t.Row) != len(t.Val) || len(t.Col) != len(t.Val) {
		return ErrTripletLength
	}

	return nil
}
