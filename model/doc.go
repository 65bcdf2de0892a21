// SPDX-License-Identifier: MIT

// Package model turns a symbolic model description plus an observation table
// into mixed model equations.
//
// Pipeline:
//
//	Build        → parse "y1 = intercept + herd + age; y2 = ..." into ModelTerms
//	SetCovariate → mark variables as continuous (value instead of level)
//	SetPedigree  → attach relationship-weighted terms (optional)
//	SetRandom    → attach i.i.d. random terms (optional, single trait)
//	Assemble     → per term: extract levels/values, build the incidence block,
//	               lay columns out contiguously; then X, y, LHS, RHS, A⁻¹.
//
// Column layout:
//   - Terms are laid out in declaration order; term k occupies the 0-based
//     columns [StartColumn, StartColumn+NumLevels).
//   - Rows are stacked per trait: row = (TraitIndex-1)*n + obs.
//
// Lifecycle:
//   - An MME is assembled at most once. Assemble flips the state before any
//     work, so a failed pass leaves the value unusable; build a new MME instead.
//   - An MME is not safe for concurrent use.
//
// Collaborators (residual precision, additive genetic and i.i.d. random
// contributions, the pedigree) are small interfaces; packages residual,
// variance and pedigree provide the standard implementations.
package model
