// SPDX-License-Identifier: MIT

package model

import (
	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/table"
)

// Pedigree supplies the level ordering of pedigree terms and the factor HAi
// with A⁻¹ = HAiᵀ·HAi.
type Pedigree interface {
	// IDs returns every individual in pedigree order; it defines the columns
	// of every pedigree term.
	IDs() []string
	// SeqID returns the 0-based position of id in IDs().
	SeqID(id string) (int, bool)
	// Factor returns the entries of HAi (len(IDs()) square).
	Factor() (matrix.Triplets, error)
}

// ResidualPrecision builds the residual weighting Ri of a multi-trait model:
// an n·t square matrix indexed like the stacked rows of the design matrix.
type ResidualPrecision interface {
	Precision(m *MME, t *table.Table) (*matrix.Sparse, error)
}

// GeneticContribution adds Ai⊗Gi to the pedigree-term blocks of the LHS.
type GeneticContribution interface {
	AddA(m *MME) error
}

// RandomContribution adds variance ratios to the blocks of i.i.d. random terms.
type RandomContribution interface {
	AddLambdas(m *MME) error
}
