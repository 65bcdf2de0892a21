// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mixedmodel/matrix"
)

func TestValidators(t *testing.T) {
	sq := MustSparse(t, [][]float64{{1, 0}, {0, 1}})
	tall := incidence3x2(t)
	var nilSparse *matrix.Sparse

	require.NoError(t, matrix.ValidateNotNil(sq))
	require.ErrorIs(t, matrix.ValidateNotNil(nilSparse), matrix.ErrNilMatrix) // typed nil caught
	require.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)

	require.NoError(t, matrix.ValidateSquare(sq))
	require.ErrorIs(t, matrix.ValidateSquare(tall), matrix.ErrDimensionMismatch)

	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen(nil, 1), matrix.ErrDimensionMismatch)

	require.ErrorIs(t, matrix.ValidateBinarySameShape(sq, tall), matrix.ErrDimensionMismatch)
	require.NoError(t, matrix.ValidateMulCompatible(tall, sq))
	require.ErrorIs(t, matrix.ValidateMulCompatible(sq, tall), matrix.ErrDimensionMismatch)
}
