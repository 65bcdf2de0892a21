// SPDX-License-Identifier: MIT

package residual

import (
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/model"
	"github.com/katalvlaran/mixedmodel/table"
)

// ErrNotPositiveDefinite re-exports the matrix sentinel for callers of this package.
var ErrNotPositiveDefinite = matrix.ErrNotPositiveDefinite

// Option configures a Builder.
type Option func(*Builder)

// WithLogger routes pattern statistics to l.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// Builder implements model.ResidualPrecision.
type Builder struct {
	log *slog.Logger
}

var _ model.ResidualPrecision = (*Builder)(nil)

// New returns a Builder logging to slog.Default() unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Precision returns Ri for m over the observations of t.
//
// Errors: model.ErrLookup for a missing trait column, ErrNotPositiveDefinite
// when an observed sub-block of R0 cannot be inverted.
func (b *Builder) Precision(m *model.MME, t *table.Table) (*matrix.Sparse, error) {
	n, nt := t.NumRows(), m.NumTraits
	observed := make([][]bool, nt)
	for k, trait := range m.Traits {
		col, err := t.Observed(trait)
		if err != nil {
			return nil, fmt.Errorf("trait %q: %w: %w", trait, model.ErrLookup, err)
		}
		observed[k] = col
	}

	cache := make(map[string]*mat.SymDense)
	var trip matrix.Triplets
	var key strings.Builder
	sel := make([]int, 0, nt)
	for i := 0; i < n; i++ {
		key.Reset()
		sel = sel[:0]
		for k := 0; k < nt; k++ {
			if observed[k][i] {
				key.WriteByte('1')
				sel = append(sel, k)
			} else {
				key.WriteByte('0')
			}
		}
		if len(sel) == 0 {
			continue
		}

		inv, ok := cache[key.String()]
		if !ok {
			sub, err := matrix.SubSym(m.Residual, sel)
			if err != nil {
				return nil, err
			}
			if inv, err = matrix.InvertSPD(sub); err != nil {
				return nil, fmt.Errorf("observed traits %s: %w", key.String(), err)
			}
			cache[key.String()] = inv
		}
		for a, ta := range sel {
			for c, tc := range sel {
				trip.Append(ta*n+i, tc*n+i, inv.At(a, c))
			}
		}
	}
	b.log.Debug("residual precision built",
		slog.Int("observations", n),
		slog.Int("patterns", len(cache)))

	return matrix.NewSparse(n*nt, n*nt, trip)
}
