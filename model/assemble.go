// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/table"
)

// missingParent is the level string of an unknown individual in pedigree terms.
const missingParent = "0"

// AssembleOption configures Assemble.
type AssembleOption func(*assembleOptions)

type assembleOptions struct {
	logger   *slog.Logger
	residual ResidualPrecision
	genetic  GeneticContribution
	random   RandomContribution
}

// WithLogger routes assembly logs to l (default slog.Default()).
func WithLogger(l *slog.Logger) AssembleOption {
	return func(o *assembleOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResidualPrecision supplies Ri for multi-trait models.
func WithResidualPrecision(p ResidualPrecision) AssembleOption {
	return func(o *assembleOptions) { o.residual = p }
}

// WithGeneticContribution supplies the A⁻¹ contribution for pedigree terms.
func WithGeneticContribution(g GeneticContribution) AssembleOption {
	return func(o *assembleOptions) { o.genetic = g }
}

// WithRandomContribution supplies the variance-ratio contribution for i.i.d. terms.
func WithRandomContribution(r RandomContribution) AssembleOption {
	return func(o *assembleOptions) { o.random = r }
}

// session is the state of one assembly pass. It owns the column counter so
// that layout never depends on anything but term order.
type session struct {
	mme  *MME
	tbl  *table.Table
	n    int
	next int
	log  *slog.Logger
}

// Assemble performs the single assembly pass over tbl.
//
// Implementation:
//   - Stage 0: guard the fresh → assembled transition.
//   - Stage 1: per term in declaration order, extract levels and values and
//     build the incidence block; columns are laid out contiguously.
//   - Stage 2: X = [X1 X2 ... Xk]; y = stacked trait columns (missing → 0).
//   - Stage 3: LHS/RHS = XᵀX, Xᵀy (one trait) or XᵀRiX, XᵀRiy (several).
//   - Stage 4: pedigree → A⁻¹ = HAiᵀHAi and the genetic contribution;
//     single trait with random terms → the i.i.d. contribution.
//
// Errors:
//   - ErrAlreadyAssembled on reuse; ErrLookup for unknown columns or pedigree
//     levels; ErrMissingCollaborator; ctx.Err() when cancelled between terms;
//     collaborator errors are returned wrapped.
//
// A failed pass leaves m unusable.
func (m *MME) Assemble(ctx context.Context, tbl *table.Table, opts ...AssembleOption) error {
	if m.assembled {
		return ErrAlreadyAssembled
	}
	m.assembled = true

	o := assembleOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if tbl == nil {
		return fmt.Errorf("nil observation table: %w", ErrInputFormat)
	}

	s := &session{mme: m, tbl: tbl, n: tbl.NumRows(), log: o.logger}
	m.numObs = s.n

	// Stage 1: terms.
	blocks := make([]*matrix.Sparse, 0, len(m.Terms))
	for _, term := range m.Terms {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.extract(term); err != nil {
			return fmt.Errorf("term %q: %w", term.TermString, err)
		}
		if err := s.incidence(term); err != nil {
			return fmt.Errorf("term %q: %w", term.TermString, err)
		}
		m.nextColumn = s.next
		blocks = append(blocks, term.Incidence)
		s.log.Debug("term laid out",
			slog.String("term", term.TermString),
			slog.Int("levels", term.NumLevels),
			slog.Int("start_column", term.StartColumn))
	}

	// Stage 2: X and y.
	x, err := matrix.HCat(blocks...)
	if err != nil {
		return fmt.Errorf("design matrix: %w", err)
	}
	m.DesignMatrix = x
	if m.Response, err = s.response(); err != nil {
		return err
	}

	// Stage 3: normal equations.
	if err = s.normalEquations(o.residual); err != nil {
		return err
	}

	// Stage 4: variance contributions.
	if m.Pedigree != nil {
		if err = s.relationship(o.genetic); err != nil {
			return err
		}
	}
	if m.NumTraits == 1 && len(m.RandomTerms) > 0 {
		if o.random == nil {
			return fmt.Errorf("i.i.d. random terms: %w", ErrMissingCollaborator)
		}
		if err = o.random.AddLambdas(m); err != nil {
			return fmt.Errorf("random contribution: %w", err)
		}
	}

	s.log.Info("mixed model equations assembled",
		slog.Int("observations", s.n),
		slog.Int("traits", m.NumTraits),
		slog.Int("terms", len(m.Terms)),
		slog.Int("equations", m.nextColumn),
		slog.Int("lhs_nnz", m.LHS.NNZ()))

	return nil
}

// extract fills LevelStrings and Values of term from the table.
//
// The first factor decides the encoding: "intercept" gives the constant level,
// a covariate gives its name as the level and its cells as values, anything
// else gives the cell text as the level and 1 as the value. Later factors
// append " * " plus the covariate name or cell text and multiply in the
// covariate value. "intercept" is only special as the first factor; in
// "intercept*herd" the later factors are still appended to the constant level.
func (s *session) extract(term *ModelTerm) error {
	levels := make([]string, s.n)
	values := make([]float64, s.n)
	for k, factor := range term.Factors {
		switch {
		case k == 0 && factor == Intercept:
			for i := range levels {
				levels[i], values[i] = Intercept, 1
			}
		case s.mme.IsCovariate(factor):
			col, err := s.tbl.FloatsOr(factor, 0)
			if err != nil {
				return lookupErr(factor, err)
			}
			for i := range levels {
				if k == 0 {
					levels[i], values[i] = factor, col[i]
					continue
				}
				levels[i] += levelFactorSep + factor
				values[i] *= col[i]
			}
		default:
			col, err := s.tbl.Strings(factor)
			if err != nil {
				return lookupErr(factor, err)
			}
			for i := range levels {
				if k == 0 {
					levels[i], values[i] = col[i], 1
					continue
				}
				levels[i] += levelFactorSep + col[i]
			}
		}
	}
	term.LevelStrings, term.Values = levels, values

	return nil
}

func lookupErr(factor string, err error) error {
	if errors.Is(err, table.ErrUnknownColumn) {
		return fmt.Errorf("column %q: %w: %w", factor, ErrLookup, err)
	}

	return fmt.Errorf("column %q: %w", factor, err)
}

// incidence builds the term's n·t × NumLevels block and assigns its columns.
func (s *session) incidence(term *ModelTerm) error {
	var t matrix.Triplets
	rowBase := (term.TraitIndex - 1) * s.n

	if s.mme.IsPedigreeTerm(term.TermString) {
		ped := s.mme.Pedigree
		for i, lvl := range term.LevelStrings {
			if lvl == missingParent {
				continue
			}
			j, ok := ped.SeqID(lvl)
			if !ok {
				return fmt.Errorf("row %d level %q not in pedigree: %w", i, lvl, ErrLookup)
			}
			t.Append(rowBase+i, j, term.Values[i])
		}
		term.LevelNames = ped.IDs()
	} else {
		idx := NewLevelIndex()
		for i, lvl := range term.LevelStrings {
			t.Append(rowBase+i, idx.LookupOrInsert(lvl), term.Values[i])
		}
		term.LevelNames = idx.Keys()
	}
	term.NumLevels = len(term.LevelNames)

	block, err := matrix.NewSparse(s.n*s.mme.NumTraits, term.NumLevels, t)
	if err != nil {
		return err
	}
	term.Incidence = block
	term.StartColumn = s.next
	s.next += term.NumLevels

	return nil
}

// response stacks the trait columns, missing cells as 0.
func (s *session) response() ([]float64, error) {
	y := make([]float64, 0, s.n*s.mme.NumTraits)
	for _, trait := range s.mme.Traits {
		col, err := s.tbl.FloatsOr(trait, 0)
		if err != nil {
			return nil, lookupErr(trait, err)
		}
		y = append(y, col...)
	}

	return y, nil
}

func (s *session) normalEquations(rp ResidualPrecision) error {
	m := s.mme
	if m.NumTraits == 1 {
		lhs, err := matrix.Gram(m.DesignMatrix)
		if err != nil {
			return fmt.Errorf("left-hand side: %w", err)
		}
		rhs, err := matrix.WeightedRHS(m.DesignMatrix, nil, m.Response)
		if err != nil {
			return fmt.Errorf("right-hand side: %w", err)
		}
		m.LHS, m.RHS = lhs, rhs

		return nil
	}

	if rp == nil {
		return fmt.Errorf("residual precision for %d traits: %w", m.NumTraits, ErrMissingCollaborator)
	}
	ri, err := rp.Precision(m, s.tbl)
	if err != nil {
		return fmt.Errorf("residual precision: %w", err)
	}
	lhs, err := matrix.WeightedGram(m.DesignMatrix, ri)
	if err != nil {
		return fmt.Errorf("left-hand side: %w", err)
	}
	rhs, err := matrix.WeightedRHS(m.DesignMatrix, ri, m.Response)
	if err != nil {
		return fmt.Errorf("right-hand side: %w", err)
	}
	m.Precision, m.LHS, m.RHS = ri, lhs, rhs

	return nil
}

func (s *session) relationship(g GeneticContribution) error {
	m := s.mme
	if g == nil {
		return fmt.Errorf("pedigree attached: %w", ErrMissingCollaborator)
	}
	trip, err := m.Pedigree.Factor()
	if err != nil {
		return fmt.Errorf("pedigree factor: %w", err)
	}
	size := len(m.Pedigree.IDs())
	hai, err := matrix.NewSparse(size, size, trip)
	if err != nil {
		return fmt.Errorf("pedigree factor: %w", err)
	}
	if m.RelationshipInverse, err = matrix.Gram(hai); err != nil {
		return fmt.Errorf("relationship inverse: %w", err)
	}
	if err = g.AddA(m); err != nil {
		return fmt.Errorf("genetic contribution: %w", err)
	}
	s.log.Debug("relationship inverse formed",
		slog.Int("individuals", size),
		slog.Int("nnz", m.RelationshipInverse.NNZ()))

	return nil
}
