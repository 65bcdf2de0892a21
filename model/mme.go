// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/mixedmodel/matrix"
)

// DefaultResidualDF is the prior degrees of freedom for the residual variance.
const DefaultResidualDF = 4.0

// RandomEffect is an i.i.d. random term and its variance component.
type RandomEffect struct {
	Term     string
	Variance float64
}

// MME holds a parsed model and, after Assemble, its mixed model equations.
type MME struct {
	NumTraits int
	Equations []string // raw per-trait text
	Traits    []string // trait symbols, one per equation
	Terms     []*ModelTerm

	Residual   *mat.SymDense // NumTraits×NumTraits residual covariance R0
	ResidualDF float64

	PedigreeTerms     []string      // term keys weighted by A⁻¹
	Pedigree          Pedigree      // nil when absent
	GeneticCovariance *mat.SymDense // G0, len(PedigreeTerms) square
	RandomTerms       []RandomEffect

	// Assembly outputs.
	DesignMatrix        *matrix.Sparse
	Response            []float64
	LHS                 *matrix.Sparse
	RHS                 []float64
	RelationshipInverse *matrix.Sparse
	Precision           *matrix.Sparse // residual weighting, multi-trait only

	lookup     map[string]*ModelTerm
	covariates []string
	numObs     int
	nextColumn int
	assembled  bool
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	residualDF float64
}

// WithResidualDF overrides DefaultResidualDF. df must be positive.
func WithResidualDF(df float64) BuildOption {
	return func(o *buildOptions) { o.residualDF = df }
}

// Build parses model equations into a fresh MME.
//
// Grammar:
//   - equations are separated by ';' or newlines; blank segments are skipped;
//   - each equation is "<trait> = <term> + <term> + ...";
//   - a term is one factor or an interaction "A*B*..." of factors.
//
// Repeated term keys create distinct terms; Term(key) resolves to the last one.
//
// Errors:
//   - ErrInputFormat for empty text, a missing '=', an empty trait or term,
//     a residual that is nil or not NumTraits square, and a non-positive df.
func Build(equations string, residual mat.Symmetric, opts ...BuildOption) (*MME, error) {
	o := buildOptions{residualDF: DefaultResidualDF}
	for _, opt := range opts {
		opt(&o)
	}
	if o.residualDF <= 0 {
		return nil, fmt.Errorf("residual df %g: %w", o.residualDF, ErrInputFormat)
	}

	segments := strings.FieldsFunc(equations, func(r rune) bool { return r == ';' || r == '\n' })
	m := &MME{
		ResidualDF: o.residualDF,
		lookup:     make(map[string]*ModelTerm),
	}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if err := m.addEquation(seg); err != nil {
			return nil, err
		}
	}
	if m.NumTraits == 0 {
		return nil, fmt.Errorf("no equations: %w", ErrInputFormat)
	}

	if residual == nil {
		return nil, fmt.Errorf("nil residual covariance: %w", ErrInputFormat)
	}
	if d := residual.SymmetricDim(); d != m.NumTraits {
		return nil, fmt.Errorf("residual covariance is %dx%d for %d traits: %w", d, d, m.NumTraits, ErrInputFormat)
	}
	m.Residual = mat.NewSymDense(m.NumTraits, nil)
	m.Residual.CopySym(residual)

	return m, nil
}

func (m *MME) addEquation(eq string) error {
	lhs, rhs, ok := strings.Cut(eq, "=")
	if !ok {
		return fmt.Errorf("equation %q has no '=': %w", eq, ErrInputFormat)
	}
	trait := strings.TrimSpace(lhs)
	if trait == "" {
		return fmt.Errorf("equation %q has no trait: %w", eq, ErrInputFormat)
	}

	idx := m.NumTraits + 1
	for _, tok := range strings.Split(rhs, "+") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return fmt.Errorf("equation %q has an empty term: %w", eq, ErrInputFormat)
		}
		term, err := newTerm(idx, tok)
		if err != nil {
			return fmt.Errorf("equation %q term %q: %w", eq, tok, err)
		}
		m.Terms = append(m.Terms, term)
		m.lookup[term.TermString] = term
	}
	m.NumTraits = idx
	m.Traits = append(m.Traits, trait)
	m.Equations = append(m.Equations, eq)

	return nil
}

// Term returns the term registered under key ("<trait>:<expr>").
func (m *MME) Term(key string) (*ModelTerm, bool) {
	t, ok := m.lookup[key]
	return t, ok
}

// SetCovariate marks variables as continuous. Each argument may hold several
// whitespace-separated names; names already marked are ignored.
func (m *MME) SetCovariate(names ...string) error {
	if m.assembled {
		return ErrAlreadyAssembled
	}
	for _, arg := range names {
		for _, name := range strings.Fields(arg) {
			if !slices.Contains(m.covariates, name) {
				m.covariates = append(m.covariates, name)
			}
		}
	}

	return nil
}

// IsCovariate reports whether name was marked continuous.
func (m *MME) IsCovariate(name string) bool {
	return slices.Contains(m.covariates, name)
}

// Covariates returns the continuous variables in designation order.
func (m *MME) Covariates() []string { return slices.Clone(m.covariates) }

// SetPedigree attaches a pedigree and the genetic covariance G0 of the given
// terms. The terms are weighted by A⁻¹ and their columns follow p.IDs().
func (m *MME) SetPedigree(p Pedigree, g0 mat.Symmetric, terms ...string) error {
	if m.assembled {
		return ErrAlreadyAssembled
	}
	if p == nil {
		return fmt.Errorf("nil pedigree: %w", ErrMissingCollaborator)
	}
	if len(terms) == 0 {
		return fmt.Errorf("no pedigree terms: %w", ErrInputFormat)
	}
	for _, key := range terms {
		if _, ok := m.lookup[key]; !ok {
			return fmt.Errorf("pedigree term %q: %w", key, ErrLookup)
		}
	}
	if g0 == nil || g0.SymmetricDim() != len(terms) {
		return fmt.Errorf("genetic covariance must be %dx%d: %w", len(terms), len(terms), ErrInputFormat)
	}

	m.Pedigree = p
	m.PedigreeTerms = slices.Clone(terms)
	m.GeneticCovariance = mat.NewSymDense(len(terms), nil)
	m.GeneticCovariance.CopySym(g0)

	return nil
}

// IsPedigreeTerm reports whether key was attached by SetPedigree.
func (m *MME) IsPedigreeTerm(key string) bool {
	return slices.Contains(m.PedigreeTerms, key)
}

// SetRandom attaches an i.i.d. random term with variance σ²ᵤ.
// Only single-trait models carry i.i.d. random terms.
func (m *MME) SetRandom(term string, variance float64) error {
	if m.assembled {
		return ErrAlreadyAssembled
	}
	if m.NumTraits != 1 {
		return fmt.Errorf("i.i.d. random term %q in a %d-trait model: %w", term, m.NumTraits, ErrInputFormat)
	}
	if _, ok := m.lookup[term]; !ok {
		return fmt.Errorf("random term %q: %w", term, ErrLookup)
	}
	if variance <= 0 {
		return fmt.Errorf("random term %q variance %g: %w", term, variance, ErrInputFormat)
	}
	m.RandomTerms = append(m.RandomTerms, RandomEffect{Term: term, Variance: variance})

	return nil
}

// ResidualVariance returns R0[0,0], the residual variance of a single-trait model.
func (m *MME) ResidualVariance() float64 { return m.Residual.At(0, 0) }

// NumObservations returns the table height seen by Assemble (0 while fresh).
func (m *MME) NumObservations() int { return m.numObs }

// NextColumn returns the next free global column (0 while fresh, the system
// size after assembly).
func (m *MME) NextColumn() int { return m.nextColumn }

// Assembled reports whether the single assembly pass has started.
func (m *MME) Assembled() bool { return m.assembled }

// AddToLHS adds alpha·block into LHS with its top-left corner at (r0, c0).
// Collaborators use it to fold variance contributions into the equations.
func (m *MME) AddToLHS(block *matrix.Sparse, r0, c0 int, alpha float64) error {
	if m.LHS == nil {
		return fmt.Errorf("left-hand side not formed: %w", ErrLookup)
	}
	lhs, err := matrix.AddBlock(m.LHS, block, r0, c0, alpha)
	if err != nil {
		return err
	}
	m.LHS = lhs

	return nil
}
