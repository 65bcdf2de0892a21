// SPDX-License-Identifier: MIT

package model

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/mixedmodel/matrix"
)

// Intercept is the reserved factor name for the constant column.
const Intercept = "intercept"

const (
	factorSep      = "*"
	levelFactorSep = " * "
)

// ModelTerm is one right-hand-side token of one trait equation.
type ModelTerm struct {
	TermString string   // "<trait>:<expr>", e.g. "1:A*B"
	TraitIndex int      // 1-based equation index
	Factors    []string // factor names in declaration order
	NumFactors int

	// Filled by extraction; one entry per observation.
	LevelStrings []string
	Values       []float64

	// Filled by the incidence builder.
	LevelNames  []string
	NumLevels   int
	StartColumn int // 0-based global column offset
	Incidence   *matrix.Sparse
}

// newTerm parses a single expression such as "herd*age" for equation trait.
func newTerm(trait int, expr string) (*ModelTerm, error) {
	parts := strings.Split(expr, factorSep)
	factors := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, ErrInputFormat
		}
		factors = append(factors, p)
	}

	return &ModelTerm{
		TermString: TermKey(trait, factors...),
		TraitIndex: trait,
		Factors:    factors,
		NumFactors: len(factors),
	}, nil
}

// TermKey renders the canonical key of a term, e.g. TermKey(2, "A", "B") == "2:A*B".
func TermKey(trait int, factors ...string) string {
	return strconv.Itoa(trait) + ":" + strings.Join(factors, factorSep)
}

// IsIntercept reports whether the term is the bare intercept.
func (t *ModelTerm) IsIntercept() bool {
	return t.NumFactors == 1 && t.Factors[0] == Intercept
}

// EndColumn returns one past the last global column of the term.
func (t *ModelTerm) EndColumn() int { return t.StartColumn + t.NumLevels }
