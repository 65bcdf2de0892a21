// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Provide thin entry points for the products that show up when forming
//     normal equations (XᵀX, XᵀWX, XᵀWy).
//   - Avoid logic duplication: each facade composes the canonical kernels.
//
// Determinism & Policy:
//   - Facades never change loop orders or numeric policy of underlying kernels.

package matrix

const (
	opGram         = "Gram"
	opWeightedGram = "WeightedGram"
	opWeightedRHS  = "WeightedRHS"
)

// Gram returns XᵀX.
// Composition: Transpose → Mul. Complexity: O(nnz(X) + flops).
func Gram(x *Sparse) (*Sparse, error) {
	xt, err := Transpose(x)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	g, err := Mul(xt, x)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	return g, nil
}

// WeightedGram returns XᵀWX for a square weighting matrix W (rows(X)×rows(X)).
// Composition: Mul(W, X) first so the intermediate stays as sparse as X.
func WeightedGram(x, w *Sparse) (*Sparse, error) {
	if err := ValidateSquare(w); err != nil {
		return nil, matrixErrorf(opWeightedGram, err)
	}
	wx, err := Mul(w, x)
	if err != nil {
		return nil, matrixErrorf(opWeightedGram, err)
	}
	xt, err := Transpose(x)
	if err != nil {
		return nil, matrixErrorf(opWeightedGram, err)
	}
	g, err := Mul(xt, wx)
	if err != nil {
		return nil, matrixErrorf(opWeightedGram, err)
	}

	return g, nil
}

// WeightedRHS returns XᵀWy. A nil W means the identity (plain Xᵀy).
func WeightedRHS(x, w *Sparse, y []float64) ([]float64, error) {
	wy := y
	if w != nil {
		var err error
		if wy, err = MulVec(w, y); err != nil {
			return nil, matrixErrorf(opWeightedRHS, err)
		}
	}
	rhs, err := MulTVec(x, wy)
	if err != nil {
		return nil, matrixErrorf(opWeightedRHS, err)
	}

	return rhs, nil
}

// DenseOf materializes any Matrix as a Dense copy (convenience for
// rendering small systems and for tests).
func DenseOf(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(ctxToDense, err)
	}
	if s, ok := m.(*Sparse); ok {
		return s.ToDense()
	}
	d, err := newDenseZeroOK(m.Rows(), m.Cols())
	if err != nil {
		return nil, matrixErrorf(ctxToDense, err)
	}
	var i, j int
	var v float64
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(ctxToDense, err)
			}
			d.data[i*d.c+j] = v
		}
	}

	return d, nil
}
