// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures (incidence-like blocks, SPD covariances).
//   - Keep all data finite so the numeric policy never interferes.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mixedmodel/matrix"
)

// MustSparse compresses a row-major literal into a Sparse, keeping the shape.
func MustSparse(t *testing.T, rows [][]float64) *matrix.Sparse {
	t.Helper()
	var tr matrix.Triplets
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	for i, row := range rows {
		for j, v := range row {
			if v != 0 {
				tr.Append(i, j, v)
			}
		}
	}
	s, err := matrix.NewSparse(len(rows), cols, tr)
	require.NoError(t, err)

	return s
}

// MustAt reads (i, j) and fails the test on error.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RequireGrid asserts that m equals the row-major literal want.
func RequireGrid(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	for i, row := range want {
		require.Equal(t, len(row), m.Cols(), "cols")
		for j, v := range row {
			require.InDeltaf(t, v, MustAt(t, m, i, j), 1e-12, "(%d,%d)", i, j)
		}
	}
}

// incidence3x2 is X for "intercept + age" with ages 2, 3, 4.
func incidence3x2(t *testing.T) *matrix.Sparse {
	return MustSparse(t, [][]float64{
		{1, 2},
		{1, 3},
		{1, 4},
	})
}
