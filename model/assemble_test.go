// SPDX-License-Identifier: MIT

package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/mixedmodel/internal/testutil"
	"github.com/katalvlaran/mixedmodel/model"
	"github.com/katalvlaran/mixedmodel/table"
)

func birthWeights(t *testing.T) *table.Table {
	return mustTable(t, []string{"ID", "herd", "age", "BW"},
		[]string{"a1", "h2", "2", "10"},
		[]string{"a2", "h1", "3", "12"},
		[]string{"a3", "h2", "4", "14"},
	)
}

func TestAssembleInterceptAndCovariate(t *testing.T) {
	m, err := model.Build("BW = intercept + age", scalar(6.72))
	require.NoError(t, err)
	require.NoError(t, m.SetCovariate("age"))

	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	require.Len(t, m.Terms, 2)
	require.Equal(t, 1, m.Terms[0].NumLevels)
	require.Equal(t, []string{"intercept"}, m.Terms[0].LevelNames)
	require.Equal(t, []string{"intercept", "intercept", "intercept"}, m.Terms[0].LevelStrings)
	require.Equal(t, []float64{1, 1, 1}, m.Terms[0].Values)
	require.Equal(t, 1, m.Terms[1].NumLevels)
	require.Equal(t, []string{"age"}, m.Terms[1].LevelNames)

	x := dense(t, m.DesignMatrix)
	r, c := x.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	for i, want := range []float64{2, 3, 4} {
		assert.Equal(t, 1.0, at(t, x, i, 0))
		assert.Equal(t, want, at(t, x, i, 1))
	}

	require.Equal(t, []float64{10, 12, 14}, m.Response)
	lhs := dense(t, m.LHS)
	assert.Equal(t, 3.0, at(t, lhs, 0, 0))
	assert.Equal(t, 9.0, at(t, lhs, 0, 1))
	assert.Equal(t, 9.0, at(t, lhs, 1, 0))
	assert.Equal(t, 29.0, at(t, lhs, 1, 1))
	require.Equal(t, []float64{36, 112}, m.RHS)

	require.Nil(t, m.RelationshipInverse)
	require.Nil(t, m.Precision)
	require.Equal(t, 2, m.NextColumn())
	require.Equal(t, 3, m.NumObservations())
	require.True(t, m.Assembled())
}

func TestAssembleCategoricalFirstSeenColumns(t *testing.T) {
	m, err := model.Build("BW = intercept + herd", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	herd := m.Terms[1]
	require.Equal(t, []string{"h2", "h1"}, herd.LevelNames)
	require.Equal(t, 1, herd.StartColumn)

	x := dense(t, m.DesignMatrix)
	assert.Equal(t, 1.0, at(t, x, 0, 1)) // a1 in h2
	assert.Equal(t, 1.0, at(t, x, 1, 2)) // a2 in h1
	assert.Equal(t, 0.0, at(t, x, 1, 1))
	assert.Equal(t, 1.0, at(t, x, 2, 1)) // a3 in h2
}

func TestAssembleInteractionEncoding(t *testing.T) {
	m, err := model.Build("BW = herd*age + age*herd", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetCovariate("age"))
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	catFirst := m.Terms[0]
	require.Equal(t, []string{"h2 * age", "h1 * age", "h2 * age"}, catFirst.LevelStrings)
	require.Equal(t, []float64{2, 3, 4}, catFirst.Values)
	require.Equal(t, []string{"h2 * age", "h1 * age"}, catFirst.LevelNames)

	covFirst := m.Terms[1]
	require.Equal(t, []string{"age * h2", "age * h1", "age * h2"}, covFirst.LevelStrings)
	require.Equal(t, []float64{2, 3, 4}, covFirst.Values)
	require.Equal(t, 2, covFirst.StartColumn)
}

// Only a leading "intercept" is the constant term; in later positions the
// name is resolved as an ordinary column.
func TestAssembleInterceptOnlySpecialWhenFirst(t *testing.T) {
	m, err := model.Build("BW = herd*intercept", scalar(1))
	require.NoError(t, err)
	err = m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t)))
	require.ErrorIs(t, err, model.ErrLookup)
	require.ErrorIs(t, err, table.ErrUnknownColumn)

	withColumn := mustTable(t, []string{"herd", "intercept", "BW"},
		[]string{"h1", "x", "1"},
		[]string{"h2", "y", "2"},
	)
	m, err = model.Build("BW = herd*intercept", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), withColumn, model.WithLogger(testutil.NewTestLogger(t))))
	require.Equal(t, []string{"h1 * x", "h2 * y"}, m.Terms[0].LevelStrings)
	require.Equal(t, []float64{1, 1}, m.Terms[0].Values)
}

// A leading "intercept" followed by more factors nests them within the
// constant: the levels carry the "intercept * " prefix and the later factors
// still split the column.
func TestAssembleLeadingInterceptInteraction(t *testing.T) {
	m, err := model.Build("BW = intercept*herd", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	term := m.Terms[0]
	require.False(t, term.IsIntercept())
	require.Equal(t, []string{"intercept * h2", "intercept * h1", "intercept * h2"}, term.LevelStrings)
	require.Equal(t, []float64{1, 1, 1}, term.Values)
	require.Equal(t, []string{"intercept * h2", "intercept * h1"}, term.LevelNames)

	x := dense(t, m.DesignMatrix)
	assert.Equal(t, 1.0, at(t, x, 0, 0))
	assert.Equal(t, 1.0, at(t, x, 1, 1))
	assert.Equal(t, 1.0, at(t, x, 2, 0))
}

func TestAssembleColumnsAreContiguous(t *testing.T) {
	m, err := model.Build("BW = intercept + herd + ID + age", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetCovariate("age"))
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	next := 0
	for _, term := range m.Terms {
		require.Equal(t, next, term.StartColumn, term.TermString)
		require.Equal(t, len(term.LevelNames), term.NumLevels)
		require.Equal(t, term.NumLevels, term.Incidence.Cols())
		require.Equal(t, 3, term.Incidence.Rows())
		next = term.EndColumn()
	}
	require.Equal(t, next, m.NextColumn())
	require.Equal(t, next, m.DesignMatrix.Cols())
	require.Equal(t, next, m.LHS.Rows())
	require.Len(t, m.RHS, next)
}

func TestAssembleMissingResponseBecomesZero(t *testing.T) {
	tbl := mustTable(t, []string{"herd", "BW"},
		[]string{"h1", "5"},
		[]string{"h1", "NA"},
		[]string{"h2", ""},
	)
	m, err := model.Build("BW = herd", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), tbl, model.WithLogger(testutil.NewTestLogger(t))))
	require.Equal(t, []float64{5, 0, 0}, m.Response)
}

func TestAssembleMultiTraitStacksRows(t *testing.T) {
	tbl := mustTable(t, []string{"herd", "y1", "y2"},
		[]string{"h1", "1", "10"},
		[]string{"h2", "2", "NA"},
	)
	r := mat.NewSymDense(2, []float64{1, 0.2, 0.2, 1})
	m, err := model.Build("y1 = intercept + herd; y2 = intercept", r)
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), tbl,
		model.WithLogger(testutil.NewTestLogger(t)),
		model.WithResidualPrecision(identityPrecision{})))

	require.Equal(t, []float64{1, 2, 10, 0}, m.Response)
	x := dense(t, m.DesignMatrix)
	rows, cols := x.Shape()
	require.Equal(t, 4, rows)            // n·t
	require.Equal(t, 4, cols)            // 1 + 2 + 1
	assert.Equal(t, 0.0, at(t, x, 2, 0)) // trait-1 intercept absent from trait-2 rows
	assert.Equal(t, 1.0, at(t, x, 2, 3)) // trait-2 intercept
	assert.Equal(t, 1.0, at(t, x, 3, 3))
	require.Equal(t, 2, m.Terms[2].TraitIndex)
	require.NotNil(t, m.Precision)

	lhs := dense(t, m.LHS)
	assert.Equal(t, 2.0, at(t, lhs, 3, 3))
	require.Equal(t, []float64{3, 1, 2, 10}, m.RHS)
}

func TestAssembleMultiTraitNeedsResidualPrecision(t *testing.T) {
	tbl := mustTable(t, []string{"y1", "y2"}, []string{"1", "2"})
	m, err := model.Build("y1 = intercept; y2 = intercept", mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	require.NoError(t, err)
	err = m.Assemble(context.Background(), tbl, model.WithLogger(testutil.NewTestLogger(t)))
	require.ErrorIs(t, err, model.ErrMissingCollaborator)
}

func TestAssemblePedigreeUsesFullIDOrdering(t *testing.T) {
	tbl := mustTable(t, []string{"Animal", "Dam", "BW"},
		[]string{"c", "a", "3"},
		[]string{"e", "0", "4"},
	)
	ped := fakePedigree{ids: []string{"a", "b", "c", "d", "e"}}
	m, err := model.Build("BW = intercept + Animal + Dam", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetPedigree(ped, mat.NewSymDense(2, []float64{1, 0, 0, 1}), "1:Animal", "1:Dam"))

	g := &recordingGenetic{}
	require.NoError(t, m.Assemble(context.Background(), tbl,
		model.WithLogger(testutil.NewTestLogger(t)),
		model.WithGeneticContribution(g)))

	animal := m.Terms[1]
	require.Equal(t, 5, animal.NumLevels) // every pedigree member, observed or not
	require.Equal(t, ped.ids, animal.LevelNames)
	require.Equal(t, 1, animal.StartColumn)

	dam := m.Terms[2]
	require.Equal(t, 6, dam.StartColumn)
	require.Equal(t, 1, dam.Incidence.NNZ()) // the "0" row contributes nothing

	x := dense(t, m.DesignMatrix)
	assert.Equal(t, 1.0, at(t, x, 0, 1+2)) // c
	assert.Equal(t, 1.0, at(t, x, 1, 1+4)) // e
	assert.Equal(t, 1.0, at(t, x, 0, 6+0)) // dam a
	require.Equal(t, 11, m.DesignMatrix.Cols())

	require.True(t, g.called)
	require.NotNil(t, g.ainv)
	require.Equal(t, 5, m.RelationshipInverse.Rows())
	require.Equal(t, 5, m.RelationshipInverse.NNZ()) // identity factor → identity A⁻¹
}

func TestAssemblePedigreeUnknownLevel(t *testing.T) {
	tbl := mustTable(t, []string{"Animal", "BW"}, []string{"zz", "1"})
	m, err := model.Build("BW = Animal", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetPedigree(fakePedigree{ids: []string{"a"}}, scalar(1), "1:Animal"))
	err = m.Assemble(context.Background(), tbl, model.WithLogger(testutil.NewTestLogger(t)),
		model.WithGeneticContribution(&recordingGenetic{}))
	require.ErrorIs(t, err, model.ErrLookup)
}

func TestAssemblePedigreeNeedsGeneticContribution(t *testing.T) {
	tbl := mustTable(t, []string{"Animal", "BW"}, []string{"a", "1"})
	m, err := model.Build("BW = Animal", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetPedigree(fakePedigree{ids: []string{"a"}}, scalar(1), "1:Animal"))
	err = m.Assemble(context.Background(), tbl, model.WithLogger(testutil.NewTestLogger(t)))
	require.ErrorIs(t, err, model.ErrMissingCollaborator)
}

func TestAssembleRandomLambdas(t *testing.T) {
	m, err := model.Build("BW = intercept + herd", scalar(6))
	require.NoError(t, err)
	require.NoError(t, m.SetRandom("1:herd", 2))

	require.ErrorIs(t,
		m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))),
		model.ErrMissingCollaborator)

	m, err = model.Build("BW = intercept + herd", scalar(6))
	require.NoError(t, err)
	require.NoError(t, m.SetRandom("1:herd", 2))
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t),
		model.WithLogger(testutil.NewTestLogger(t)),
		model.WithRandomContribution(ratioRandom{})))

	lhs := dense(t, m.LHS)
	assert.Equal(t, 3.0, at(t, lhs, 0, 0))   // intercept untouched
	assert.Equal(t, 2.0+3, at(t, lhs, 1, 1)) // h2: 2 records + 6/2
	assert.Equal(t, 1.0+3, at(t, lhs, 2, 2)) // h1: 1 record + 6/2
}

func TestAssembleIsSingleUse(t *testing.T) {
	m, err := model.Build("BW = intercept", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))))

	require.ErrorIs(t, m.Assemble(context.Background(), birthWeights(t)), model.ErrAlreadyAssembled)
	require.ErrorIs(t, m.SetCovariate("age"), model.ErrAlreadyAssembled)
	require.ErrorIs(t, m.SetRandom("1:intercept", 1), model.ErrAlreadyAssembled)
}

func TestAssembleFailedPassIsNotRetriable(t *testing.T) {
	m, err := model.Build("BW = intercept + pen", scalar(1))
	require.NoError(t, err)
	err = m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t)))
	require.ErrorIs(t, err, model.ErrLookup)
	require.ErrorIs(t, m.Assemble(context.Background(), birthWeights(t)), model.ErrAlreadyAssembled)
}

func TestAssembleNonNumericCovariate(t *testing.T) {
	m, err := model.Build("BW = herd", scalar(1))
	require.NoError(t, err)
	require.NoError(t, m.SetCovariate("herd"))
	err = m.Assemble(context.Background(), birthWeights(t), model.WithLogger(testutil.NewTestLogger(t)))
	require.ErrorIs(t, err, table.ErrNotNumeric)
}

func TestAssembleHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := model.Build("BW = intercept", scalar(1))
	require.NoError(t, err)
	require.ErrorIs(t, m.Assemble(ctx, birthWeights(t), model.WithLogger(testutil.NewTestLogger(t))), context.Canceled)
}
