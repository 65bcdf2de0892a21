// SPDX-License-Identifier: MIT

// Package pedigree orders a three-column pedigree (individual, sire, dam),
// computes inbreeding coefficients and the factor HAi of the inverse
// numerator relationship matrix, A⁻¹ = HAiᵀ·HAi.
//
// Ordering:
//   - Parents always precede their offspring (depth-first, ancestors first).
//   - Ties follow first appearance in the input; parents that have no record
//     of their own are added as founders.
//   - A cycle (an individual among its own ancestors) is rejected.
//
// Inbreeding follows Meuwissen & Luo (1992). With dᵢ the Mendelian sampling
// variance of individual i,
//
//	dᵢ = 0.5 − 0.25·(F_sire + F_dam),  F_unknown = −1,
//
// row i of HAi holds 1/√dᵢ on the diagonal and −0.5/√dᵢ at each known parent.
//
// *Pedigree satisfies model.Pedigree.
package pedigree
