// SPDX-License-Identifier: MIT
// Package matrix provides the sparse kernels used to form normal equations:
// transpose, product, matrix-vector products, sums, scaling and block
// concatenation. All functions perform strict fail-fast validation and return
// wrapped sentinels on dimension mismatches.
//
// Notes:
//   - Kernels never mutate their operands; every result is freshly allocated.
//   - Loop orders are fixed (column-major), so results are bitwise reproducible.

package matrix

import (
	"fmt"
	"slices"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opMul       = "Mul"
	opMulVec    = "MulVec"
	opMulTVec   = "MulTVec"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opHCat      = "HCat"
	opEmbed     = "Embed"
	opAddBlock  = "AddBlock"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Transpose returns sᵀ as a new Sparse.
//
// Implementation:
//   - Stage 1: count entries per row of s (these become the columns of sᵀ).
//   - Stage 2: scatter in column order of s, which keeps rows of sᵀ sorted.
//
// Complexity:
//   - Time O(nnz + r + c), Space O(nnz + r).
func Transpose(s *Sparse) (*Sparse, error) {
	if err := ValidateNotNil(s); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	nnz := s.NNZ()
	t := &Sparse{
		r:              s.c,
		c:              s.r,
		colPtr:         make([]int, s.r+1),
		rowIdx:         make([]int, nnz),
		val:            make([]float64, nnz),
		validateNaNInf: s.validateNaNInf,
	}
	for _, i := range s.rowIdx {
		t.colPtr[i+1]++
	}
	for i := 0; i < s.r; i++ {
		t.colPtr[i+1] += t.colPtr[i]
	}
	next := slices.Clone(t.colPtr[:s.r])
	for j := 0; j < s.c; j++ {
		for p := s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			i := s.rowIdx[p]
			q := next[i]
			t.rowIdx[q] = j
			t.val[q] = s.val[p]
			next[i]++
		}
	}

	return t, nil
}

// Mul computes C = A × B for sparse operands (Gustavson, column by column).
//
// Implementation:
//   - For each column j of B, accumulate A[:,k]·B[k,j] into a dense workspace of
//     length A.Rows(); a marker array records which rows were touched.
//   - Touched rows are sorted before emission, so C keeps sorted columns.
//
// Behavior highlights:
//   - Exact zeros produced by cancellation are dropped.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (A.Cols != B.Rows).
//
// Complexity:
//   - Time O(flops + nnz(C) log nnz(col)), Space O(A.Rows() + nnz(C)).
func Mul(a, b *Sparse) (*Sparse, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	c := &Sparse{
		r:              a.r,
		c:              b.c,
		colPtr:         make([]int, b.c+1),
		validateNaNInf: a.validateNaNInf,
	}
	acc := make([]float64, a.r)
	mark := make([]int, a.r)
	for i := range mark {
		mark[i] = -1
	}
	touched := make([]int, 0, a.r)
	for j := 0; j < b.c; j++ {
		touched = touched[:0]
		for pb := b.colPtr[j]; pb < b.colPtr[j+1]; pb++ {
			k, bkj := b.rowIdx[pb], b.val[pb]
			for pa := a.colPtr[k]; pa < a.colPtr[k+1]; pa++ {
				i := a.rowIdx[pa]
				if mark[i] != j {
					mark[i] = j
					acc[i] = 0
					touched = append(touched, i)
				}
				acc[i] += a.val[pa] * bkj
			}
		}
		slices.Sort(touched)
		for _, i := range touched {
			if acc[i] != 0 {
				c.rowIdx = append(c.rowIdx, i)
				c.val = append(c.val, acc[i])
			}
		}
		c.colPtr[j+1] = len(c.rowIdx)
	}

	return c, nil
}

// MulVec computes y = A·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(x) != A.Cols()).
// Complexity: O(nnz + r).
func MulVec(a *Sparse, x []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	if err := ValidateVecLen(x, a.c); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	y := make([]float64, a.r)
	for j := 0; j < a.c; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := a.colPtr[j]; p < a.colPtr[j+1]; p++ {
			y[a.rowIdx[p]] += a.val[p] * xj
		}
	}

	return y, nil
}

// MulTVec computes y = Aᵀ·x without materializing Aᵀ.
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(x) != A.Rows()).
// Complexity: O(nnz + c).
func MulTVec(a *Sparse, x []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMulTVec, err)
	}
	if err := ValidateVecLen(x, a.r); err != nil {
		return nil, matrixErrorf(opMulTVec, err)
	}
	y := make([]float64, a.c)
	for j := 0; j < a.c; j++ {
		var sum float64
		for p := a.colPtr[j]; p < a.colPtr[j+1]; p++ {
			sum += a.val[p] * x[a.rowIdx[p]]
		}
		y[j] = sum
	}

	return y, nil
}

// Add computes C = A + B by merging sorted columns.
// Entries that cancel to exactly zero are dropped.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(nnz(A) + nnz(B) + c).
func Add(a, b *Sparse) (*Sparse, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	c := &Sparse{
		r:              a.r,
		c:              a.c,
		colPtr:         make([]int, a.c+1),
		rowIdx:         make([]int, 0, a.NNZ()+b.NNZ()),
		val:            make([]float64, 0, a.NNZ()+b.NNZ()),
		validateNaNInf: a.validateNaNInf,
	}
	emit := func(i int, v float64) {
		if v != 0 {
			c.rowIdx = append(c.rowIdx, i)
			c.val = append(c.val, v)
		}
	}
	for j := 0; j < a.c; j++ {
		pa, ea := a.colPtr[j], a.colPtr[j+1]
		pb, eb := b.colPtr[j], b.colPtr[j+1]
		for pa < ea || pb < eb {
			switch {
			case pb >= eb || (pa < ea && a.rowIdx[pa] < b.rowIdx[pb]):
				emit(a.rowIdx[pa], a.val[pa])
				pa++
			case pa >= ea || b.rowIdx[pb] < a.rowIdx[pa]:
				emit(b.rowIdx[pb], b.val[pb])
				pb++
			default:
				emit(a.rowIdx[pa], a.val[pa]+b.val[pb])
				pa++
				pb++
			}
		}
		c.colPtr[j+1] = len(c.rowIdx)
	}

	return c, nil
}

// Scale returns alpha·s. alpha = 0 yields an empty matrix of the same shape.
func Scale(s *Sparse, alpha float64) (*Sparse, error) {
	if err := ValidateNotNil(s); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if alpha == 0 {
		return NewSparseZeros(s.r, s.c)
	}
	out := s.clone()
	for p := range out.val {
		out.val[p] *= alpha
	}

	return out, nil
}

// HCat concatenates blocks left to right: [B1 B2 ... Bk].
// All blocks must have the same number of rows. Zero-column blocks are legal.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrInvalidDimensions (no blocks).
// Complexity: O(Σ nnz + Σ cols).
func HCat(blocks ...*Sparse) (*Sparse, error) {
	if len(blocks) == 0 {
		return nil, matrixErrorf(opHCat, ErrInvalidDimensions)
	}
	rows, cols, nnz := -1, 0, 0
	for k, b := range blocks {
		if err := ValidateNotNil(b); err != nil {
			return nil, matrixErrorf(opHCat, fmt.Errorf("block %d: %w", k, err))
		}
		if rows >= 0 && b.r != rows {
			return nil, matrixErrorf(opHCat, fmt.Errorf("block %d has %d rows, want %d: %w", k, b.r, rows, ErrDimensionMismatch))
		}
		rows = b.r
		cols += b.c
		nnz += b.NNZ()
	}
	out := &Sparse{
		r:              rows,
		c:              cols,
		colPtr:         make([]int, 1, cols+1),
		rowIdx:         make([]int, 0, nnz),
		val:            make([]float64, 0, nnz),
		validateNaNInf: blocks[0].validateNaNInf,
	}
	for _, b := range blocks {
		base := len(out.rowIdx)
		out.rowIdx = append(out.rowIdx, b.rowIdx...)
		out.val = append(out.val, b.val...)
		for j := 1; j <= b.c; j++ {
			out.colPtr = append(out.colPtr, base+b.colPtr[j])
		}
	}

	return out, nil
}

// Embed places src into a rows×cols zero matrix with its top-left corner at (r0, c0).
// Errors: ErrNilMatrix, ErrOutOfRange when src does not fit.
func Embed(src *Sparse, rows, cols, r0, c0 int) (*Sparse, error) {
	if err := ValidateNotNil(src); err != nil {
		return nil, matrixErrorf(opEmbed, err)
	}
	if r0 < 0 || c0 < 0 || r0+src.r > rows || c0+src.c > cols {
		return nil, matrixErrorf(opEmbed, fmt.Errorf("%dx%d block at (%d,%d) in %dx%d: %w",
			src.r, src.c, r0, c0, rows, cols, ErrOutOfRange))
	}
	out := &Sparse{
		r:              rows,
		c:              cols,
		colPtr:         make([]int, cols+1),
		rowIdx:         make([]int, src.NNZ()),
		val:            slices.Clone(src.val),
		validateNaNInf: src.validateNaNInf,
	}
	for p, i := range src.rowIdx {
		out.rowIdx[p] = i + r0
	}
	for j := 0; j < cols; j++ {
		switch {
		case j < c0:
			out.colPtr[j+1] = 0
		case j < c0+src.c:
			out.colPtr[j+1] = src.colPtr[j-c0+1]
		default:
			out.colPtr[j+1] = src.NNZ()
		}
	}

	return out, nil
}

// AddBlock returns dst + alpha·src, with src anchored at (r0, c0) inside dst.
// This is the sparse analogue of `dst[r0:r0+h, c0:c0+w] += alpha*src`.
//
// Errors: ErrNilMatrix, ErrOutOfRange when the block does not fit.
func AddBlock(dst, src *Sparse, r0, c0 int, alpha float64) (*Sparse, error) {
	if err := ValidateNotNil(dst); err != nil {
		return nil, matrixErrorf(opAddBlock, err)
	}
	scaled, err := Scale(src, alpha)
	if err != nil {
		return nil, matrixErrorf(opAddBlock, err)
	}
	placed, err := Embed(scaled, dst.r, dst.c, r0, c0)
	if err != nil {
		return nil, matrixErrorf(opAddBlock, err)
	}

	return Add(dst, placed)
}
