// SPDX-License-Identifier: MIT

package variance

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/model"
)

// ErrNoRelationship indicates AddA ran before A⁻¹ was formed.
var ErrNoRelationship = errors.New("variance: relationship inverse not formed")

// Additive implements model.GeneticContribution.
type Additive struct{}

// IID implements model.RandomContribution.
type IID struct{}

var (
	_ model.GeneticContribution = Additive{}
	_ model.RandomContribution  = IID{}
)

// AddA adds A⁻¹·Gi[i,j] at block (i, j) for every pair of pedigree terms,
// where Gi = G0⁻¹ (times σ²ₑ for a single trait).
func (Additive) AddA(m *model.MME) error {
	ainv := m.RelationshipInverse
	if ainv == nil {
		return ErrNoRelationship
	}
	gi, err := matrix.InvertSPD(m.GeneticCovariance)
	if err != nil {
		return fmt.Errorf("genetic covariance: %w", err)
	}
	scale := 1.0
	if m.NumTraits == 1 {
		scale = m.ResidualVariance()
	}

	terms := make([]*model.ModelTerm, len(m.PedigreeTerms))
	for k, key := range m.PedigreeTerms {
		term, ok := m.Term(key)
		if !ok {
			return fmt.Errorf("pedigree term %q: %w", key, model.ErrLookup)
		}
		if term.NumLevels != ainv.Rows() {
			return fmt.Errorf("pedigree term %q has %d levels for %d individuals: %w",
				key, term.NumLevels, ainv.Rows(), matrix.ErrDimensionMismatch)
		}
		terms[k] = term
	}
	for i, ti := range terms {
		for j, tj := range terms {
			if err = m.AddToLHS(ainv, ti.StartColumn, tj.StartColumn, gi.At(i, j)*scale); err != nil {
				return fmt.Errorf("block (%s, %s): %w", ti.TermString, tj.TermString, err)
			}
		}
	}

	return nil
}

// AddLambdas adds I·σ²ₑ/σ²ᵤ to the diagonal block of every random term.
func (IID) AddLambdas(m *model.MME) error {
	for _, re := range m.RandomTerms {
		term, ok := m.Term(re.Term)
		if !ok {
			return fmt.Errorf("random term %q: %w", re.Term, model.ErrLookup)
		}
		id, err := matrix.Identity(term.NumLevels, 1)
		if err != nil {
			return err
		}
		lambda := m.ResidualVariance() / re.Variance
		if err = m.AddToLHS(id, term.StartColumn, term.StartColumn, lambda); err != nil {
			return fmt.Errorf("random term %q: %w", re.Term, err)
		}
	}

	return nil
}
