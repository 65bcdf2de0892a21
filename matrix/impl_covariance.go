// SPDX-License-Identifier: MIT

// Package matrix - covariance helpers on top of gonum/mat.
//
// Purpose:
//   - Invert the small symmetric positive-definite blocks of a mixed model
//     (residual covariance R0 and its observed sub-blocks, genetic covariance G0).
//   - Keep gonum types at the edge: callers pass any mat.Symmetric and receive
//     a freshly allocated *mat.SymDense.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	opInvertSPD = "InvertSPD"
	opSubSym    = "SubSym"
)

// InvertSPD returns s⁻¹ through a Cholesky factorization.
//
// Errors:
//   - ErrNilMatrix for nil input, ErrInvalidDimensions for an empty block,
//     ErrNotPositiveDefinite when the factorization fails.
//
// Complexity: O(n³).
func InvertSPD(s mat.Symmetric) (*mat.SymDense, error) {
	if s == nil {
		return nil, matrixErrorf(opInvertSPD, ErrNilMatrix)
	}
	if s.SymmetricDim() == 0 {
		return nil, matrixErrorf(opInvertSPD, ErrInvalidDimensions)
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(s); !ok {
		return nil, matrixErrorf(opInvertSPD, ErrNotPositiveDefinite)
	}
	var inv mat.SymDense
	if err := ch.InverseTo(&inv); err != nil {
		return nil, matrixErrorf(opInvertSPD, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err))
	}

	return &inv, nil
}

// SubSym returns the symmetric sub-block of s on the given indices, in order.
//
// Errors: ErrNilMatrix, ErrInvalidDimensions for no indices, ErrOutOfRange
// for an index outside s.
func SubSym(s mat.Symmetric, idx []int) (*mat.SymDense, error) {
	if s == nil {
		return nil, matrixErrorf(opSubSym, ErrNilMatrix)
	}
	if len(idx) == 0 {
		return nil, matrixErrorf(opSubSym, ErrInvalidDimensions)
	}
	n := s.SymmetricDim()
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, matrixErrorf(opSubSym, fmt.Errorf("index %d of %d: %w", i, n, ErrOutOfRange))
		}
	}
	out := mat.NewSymDense(len(idx), nil)
	for a, i := range idx {
		for b := a; b < len(idx); b++ {
			out.SetSym(a, b, s.At(i, idx[b]))
		}
	}

	return out, nil
}
