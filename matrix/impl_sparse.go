// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (compressed sparse column).
//
// Purpose:
//   - Hold incidence blocks, design matrices and normal equations without densifying.
//   - Take the shape as an explicit constructor argument. Trailing empty rows or
//     columns are part of the shape, so no placeholder entries are ever needed to
//     "stretch" a matrix to its intended size.
//
// Layout:
//   - colPtr has length cols+1; column j occupies rowIdx/val[colPtr[j]:colPtr[j+1]].
//   - Row indices inside a column are strictly increasing.
//
// Complexity quicksheet:
//   - NewSparse: O(nnz log nnz) worst case (per-column sort); At: O(log nnz(col));
//     Set on a new coordinate: O(nnz) (tail shift); Clone: O(nnz + cols).

package matrix

import (
	"fmt"
	"slices"
	"sort"
)

const (
	ctxNewSparse = "NewSparse"
	ctxToDense   = "ToDense"
)

// sparseErrorf mirrors denseErrorf for Sparse accessors.
func sparseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Sparse.%s(%d,%d): %w", method, row, col, err)
}

// Sparse is a compressed-sparse-column matrix.
type Sparse struct {
	r, c           int
	colPtr         []int     // len c+1
	rowIdx         []int     // len nnz
	val            []float64 // len nnz
	validateNaNInf bool
}

var (
	_ Matrix       = (*Sparse)(nil)
	_ fmt.Stringer = (*Sparse)(nil)
)

// entry is a (row, value) pair used while compressing a column.
type entry struct {
	row int
	v   float64
}

// NewSparse compresses triplets into a rows×cols CSC matrix.
//
// Implementation:
//   - Stage 1: validate shape (rows, cols ≥ 0), triplet lengths, indices and values.
//   - Stage 2: bucket entries by column (counting sort on the column index).
//   - Stage 3: sort each column by row, sum duplicates, drop zeros unless WithKeepZeros.
//
// Behavior highlights:
//   - Duplicate coordinates are summed (the usual coordinate-format convention).
//   - The shape is exactly (rows, cols) regardless of which coordinates are present.
//
// Errors:
//   - ErrInvalidDimensions (negative shape), ErrTripletLength, ErrOutOfRange,
//     ErrNaNInf (when the numeric policy is on).
func NewSparse(rows, cols int, t Triplets, opts ...Option) (*Sparse, error) {
	o := gatherOptions(opts...)
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(ctxNewSparse, ErrInvalidDimensions)
	}
	if err := t.validate(); err != nil {
		return nil, matrixErrorf(ctxNewSparse, err)
	}
	n := t.Len()

	// Stage 1: validate coordinates and values; count entries per column.
	counts := make([]int, cols+1)
	var k int
	for k = 0; k < n; k++ {
		if t.Row[k] < 0 || t.Row[k] >= rows || t.Col[k] < 0 || t.Col[k] >= cols {
			return nil, matrixErrorf(ctxNewSparse, fmt.Errorf("entry %d at (%d,%d) for %dx%d: %w",
				k, t.Row[k], t.Col[k], rows, cols, ErrOutOfRange))
		}
		if o.validateNaNInf && isNonFinite(t.Val[k]) {
			return nil, matrixErrorf(ctxNewSparse, fmt.Errorf("entry %d at (%d,%d): %w", k, t.Row[k], t.Col[k], ErrNaNInf))
		}
		counts[t.Col[k]+1]++
	}

	// Stage 2: prefix sums give bucket starts; scatter entries by column.
	for k = 0; k < cols; k++ {
		counts[k+1] += counts[k]
	}
	bucket := make([]entry, n)
	next := make([]int, cols)
	copy(next, counts[:cols])
	for k = 0; k < n; k++ {
		j := t.Col[k]
		bucket[next[j]] = entry{row: t.Row[k], v: t.Val[k]}
		next[j]++
	}

	// Stage 3: per column sort, merge duplicates and compact.
	s := &Sparse{
		r:              rows,
		c:              cols,
		colPtr:         make([]int, cols+1),
		rowIdx:         make([]int, 0, n),
		val:            make([]float64, 0, n),
		validateNaNInf: o.validateNaNInf,
	}
	for j := 0; j < cols; j++ {
		seg := bucket[counts[j]:counts[j+1]]
		slices.SortStableFunc(seg, func(a, b entry) int { return a.row - b.row })
		for p := 0; p < len(seg); {
			row, sum := seg[p].row, seg[p].v
			p++
			for p < len(seg) && seg[p].row == row {
				sum += seg[p].v
				p++
			}
			if sum == 0 && !o.keepZeros {
				continue
			}
			s.rowIdx = append(s.rowIdx, row)
			s.val = append(s.val, sum)
		}
		s.colPtr[j+1] = len(s.rowIdx)
	}

	return s, nil
}

// NewSparseZeros returns an empty rows×cols Sparse (no stored entries).
func NewSparseZeros(rows, cols int) (*Sparse, error) {
	return NewSparse(rows, cols, Triplets{})
}

// Identity returns alpha·I_n as a Sparse.
func Identity(n int, alpha float64) (*Sparse, error) {
	var t Triplets
	for i := 0; i < n; i++ {
		t.Append(i, i, alpha)
	}

	return NewSparse(n, n, t)
}

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.c }

// Shape packs Rows() and Cols().
func (s *Sparse) Shape() (rows, cols int) { return s.r, s.c }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.val) }

// find locates row i in column j; returns the storage position and whether it exists.
func (s *Sparse) find(i, j int) (int, bool) {
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	p := lo + sort.SearchInts(s.rowIdx[lo:hi], i)

	return p, p < hi && s.rowIdx[p] == i
}

// At returns the value at (row, col); absent entries read as 0.
func (s *Sparse) At(row, col int) (float64, error) {
	if row < 0 || row >= s.r || col < 0 || col >= s.c {
		return 0, sparseErrorf(ctxAt, row, col, ErrOutOfRange)
	}
	if p, ok := s.find(row, col); ok {
		return s.val[p], nil
	}

	return 0, nil
}

// Set stores v at (row, col).
//
// Behavior highlights:
//   - Updating an existing entry is O(log nnz(col)).
//   - Writing 0 to an absent coordinate is a no-op; writing 0 to a stored
//     coordinate keeps the structural entry.
//   - Inserting a new coordinate shifts the storage tail (O(nnz)); build with
//     triplets when filling many entries.
func (s *Sparse) Set(row, col int, v float64) error {
	if row < 0 || row >= s.r || col < 0 || col >= s.c {
		return sparseErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	if s.validateNaNInf && isNonFinite(v) {
		return sparseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	p, ok := s.find(row, col)
	if ok {
		s.val[p] = v

		return nil
	}
	if v == 0 {
		return nil
	}
	s.rowIdx = slices.Insert(s.rowIdx, p, row)
	s.val = slices.Insert(s.val, p, v)
	for j := col + 1; j <= s.c; j++ {
		s.colPtr[j]++
	}

	return nil
}

// Clone returns a deep copy.
func (s *Sparse) Clone() Matrix { return s.clone() }

func (s *Sparse) clone() *Sparse {
	return &Sparse{
		r:              s.r,
		c:              s.c,
		colPtr:         slices.Clone(s.colPtr),
		rowIdx:         slices.Clone(s.rowIdx),
		val:            slices.Clone(s.val),
		validateNaNInf: s.validateNaNInf,
	}
}

// Do visits stored entries in column-major order (column asc, row asc).
// Stops early when f returns false.
func (s *Sparse) Do(f func(i, j int, v float64) bool) {
	for j := 0; j < s.c; j++ {
		for p := s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			if !f(s.rowIdx[p], j, s.val[p]) {
				return
			}
		}
	}
}

// ToDense materializes the matrix. Intended for small systems and tests.
// Complexity: O(r*c + nnz).
func (s *Sparse) ToDense() (*Dense, error) {
	d, err := newDenseZeroOK(s.r, s.c)
	if err != nil {
		return nil, matrixErrorf(ctxToDense, err)
	}
	d.validateNaNInf = s.validateNaNInf
	s.Do(func(i, j int, v float64) bool {
		d.data[i*d.c+j] = v
		return true
	})

	return d, nil
}

// String prints a compact summary; use ToDense().String() for the full grid.
func (s *Sparse) String() string {
	return fmt.Sprintf("Sparse(%dx%d, nnz=%d)", s.r, s.c, s.NNZ())
}
