// SPDX-License-Identifier: MIT

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/model"
	"github.com/katalvlaran/mixedmodel/table"
)

func scalar(v float64) *mat.SymDense {
	return mat.NewSymDense(1, []float64{v})
}

func mustTable(t *testing.T, names []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(names, rows)
	require.NoError(t, err)

	return tbl
}

func dense(t *testing.T, s *matrix.Sparse) *matrix.Dense {
	t.Helper()
	d, err := s.ToDense()
	require.NoError(t, err)

	return d
}

func at(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// fakePedigree is a fixed ID ordering with an identity factor.
type fakePedigree struct {
	ids []string
}

func (p fakePedigree) IDs() []string { return p.ids }

func (p fakePedigree) SeqID(id string) (int, bool) {
	for i, x := range p.ids {
		if x == id {
			return i, true
		}
	}

	return 0, false
}

func (p fakePedigree) Factor() (matrix.Triplets, error) {
	var t matrix.Triplets
	for i := range p.ids {
		t.Append(i, i, 1)
	}

	return t, nil
}

// recordingGenetic remembers whether AddA ran and what it saw.
type recordingGenetic struct {
	called bool
	ainv   *matrix.Sparse
}

func (g *recordingGenetic) AddA(m *model.MME) error {
	g.called = true
	g.ainv = m.RelationshipInverse

	return nil
}

// ratioRandom adds σ²ₑ/σ²ᵤ on the diagonal of each random block.
type ratioRandom struct{}

func (ratioRandom) AddLambdas(m *model.MME) error {
	for _, re := range m.RandomTerms {
		term, _ := m.Term(re.Term)
		id, err := matrix.Identity(term.NumLevels, 1)
		if err != nil {
			return err
		}
		if err = m.AddToLHS(id, term.StartColumn, term.StartColumn, m.ResidualVariance()/re.Variance); err != nil {
			return err
		}
	}

	return nil
}

// identityPrecision weights every stacked row by 1.
type identityPrecision struct{}

func (identityPrecision) Precision(m *model.MME, t *table.Table) (*matrix.Sparse, error) {
	return matrix.Identity(m.NumTraits*t.NumRows(), 1)
}
