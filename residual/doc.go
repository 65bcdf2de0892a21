// SPDX-License-Identifier: MIT

// Package residual builds the residual precision Ri of a multi-trait model.
//
// Each observation has a pattern of observed traits. Its block of Ri is the
// inverse of R0 restricted to the observed traits; missing traits get no
// entries. Inverses are computed once per distinct pattern. Ri is indexed like
// the stacked rows of the design matrix: trait t of observation i is row
// t·n + i.
package residual
