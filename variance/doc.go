// SPDX-License-Identifier: MIT

// Package variance folds variance components into assembled mixed model
// equations.
//
//   - Additive adds A⁻¹⊗G0⁻¹ over the pedigree terms. In a single-trait model
//     the left-hand side is unscaled (XᵀX), so G0⁻¹ is multiplied by the
//     residual variance, giving the usual ratio σ²ₑ/σ²ₐ.
//   - IID adds I·σ²ₑ/σ²ᵤ to the diagonal block of each i.i.d. random term.
package variance
