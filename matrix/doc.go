// SPDX-License-Identifier: MIT

// Package matrix offers the linear-algebra primitives used to assemble
// mixed model equations.
//
// The matrix package provides:
//
//   - Matrix, a bounds-checked interface over two-dimensional float64 storage.
//   - Dense, a row-major implementation for small blocks (covariance
//     matrices, rendered systems) with a bridge to gonum/mat.
//   - Sparse, a compressed-sparse-column implementation whose shape is always
//     given explicitly at construction, so trailing empty rows or columns are
//     never lost.
//   - Kernels (Transpose, Mul, MulVec, Add, HCat, AddBlock) that keep
//     sparse operands sparse.
//
// Incidence matrices of mixed models are very sparse (one entry per
// observation and term), while the normal equations are moderately sparse;
// all kernels here operate column by column and never densify.
//
// Errors are package sentinels (ErrInvalidDimensions, ErrOutOfRange,
// ErrDimensionMismatch, ErrNilMatrix, ErrNaNInf) wrapped with the operation
// name; match them with errors.Is.
package matrix
