// SPDX-License-Identifier: MIT

package pedigree

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/katalvlaran/mixedmodel/matrix"
	"github.com/katalvlaran/mixedmodel/table"
)

// unknown is the parent index of a missing parent.
const unknown = -1

// Record is one pedigree line.
type Record struct {
	ID   string
	Sire string
	Dam  string
}

// Option configures New.
type Option func(*options)

type options struct {
	ctx context.Context
}

// WithCancelContext makes ordering abort when ctx is done. A nil ctx is ignored.
func WithCancelContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Pedigree is an ordered pedigree with inbreeding coefficients.
type Pedigree struct {
	ids  []string
	seq  map[string]int
	sire []int // parent positions, unknown when missing
	dam  []int
	f    []float64 // inbreeding
	d    []float64 // Mendelian sampling variance
}

// IsUnknownParent reports whether a parent code denotes a missing parent:
// "0" or any missing-cell marker.
func IsUnknownParent(code string) bool {
	code = strings.TrimSpace(code)
	return code == "0" || table.IsMissing(code)
}

// New orders records, adds parents without records as founders and computes
// inbreeding.
//
// Errors:
//   - ErrEmptyID, ErrDuplicateID, ErrSelfParent, ErrCycle (wrapped with the id);
//   - ctx.Err() when cancelled through WithCancelContext.
//
// Complexity: O(n + Σ ancestors(i)) for inbreeding, O(n) for ordering.
func New(records []Record, opts ...Option) (*Pedigree, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	parents := make(map[string][2]string, len(records))
	seed := make([]string, 0, len(records))
	for i, r := range records {
		id := strings.TrimSpace(r.ID)
		if IsUnknownParent(id) {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyID)
		}
		if _, dup := parents[id]; dup {
			return nil, fmt.Errorf("record %d %q: %w", i, id, ErrDuplicateID)
		}
		var pair [2]string
		for k, p := range []string{r.Sire, r.Dam} {
			p = strings.TrimSpace(p)
			if IsUnknownParent(p) {
				continue
			}
			if p == id {
				return nil, fmt.Errorf("record %d %q: %w", i, id, ErrSelfParent)
			}
			pair[k] = p
		}
		parents[id] = pair
		seed = append(seed, id)
	}

	order, err := sortAncestorsFirst(o.ctx, seed, parents)
	if err != nil {
		return nil, err
	}

	n := len(order)
	p := &Pedigree{
		ids:  order,
		seq:  make(map[string]int, n),
		sire: make([]int, n),
		dam:  make([]int, n),
	}
	for i, id := range order {
		p.seq[id] = i
	}
	for i, id := range order {
		pair := parents[id]
		p.sire[i], p.dam[i] = p.position(pair[0]), p.position(pair[1])
	}
	p.inbreeding()

	return p, nil
}

func (p *Pedigree) position(id string) int {
	if id == "" {
		return unknown
	}

	return p.seq[id]
}

// FromTable reads records from three columns of t.
func FromTable(t *table.Table, idCol, sireCol, damCol string, opts ...Option) (*Pedigree, error) {
	ids, err := t.Strings(idCol)
	if err != nil {
		return nil, err
	}
	sires, err := t.Strings(sireCol)
	if err != nil {
		return nil, err
	}
	dams, err := t.Strings(damCol)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(ids))
	for i := range ids {
		records[i] = Record{ID: ids[i], Sire: sires[i], Dam: dams[i]}
	}

	return New(records, opts...)
}

// Len returns the number of individuals, founders added from parents included.
func (p *Pedigree) Len() int { return len(p.ids) }

// IDs returns individuals in order (parents before offspring).
func (p *Pedigree) IDs() []string { return slices.Clone(p.ids) }

// SeqID returns the 0-based position of id.
func (p *Pedigree) SeqID(id string) (int, bool) {
	i, ok := p.seq[id]
	return i, ok
}

// Parents returns the sire and dam of id ("" when unknown).
func (p *Pedigree) Parents(id string) (sire, dam string, ok bool) {
	i, ok := p.seq[id]
	if !ok {
		return "", "", false
	}

	return p.name(p.sire[i]), p.name(p.dam[i]), true
}

func (p *Pedigree) name(pos int) string {
	if pos == unknown {
		return ""
	}

	return p.ids[pos]
}

// Inbreeding returns the inbreeding coefficient of id.
func (p *Pedigree) Inbreeding(id string) (float64, bool) {
	i, ok := p.seq[id]
	if !ok {
		return 0, false
	}

	return p.f[i], true
}

// Factor returns the entries of HAi, len(IDs()) square, with A⁻¹ = HAiᵀ·HAi.
func (p *Pedigree) Factor() (matrix.Triplets, error) {
	var t matrix.Triplets
	for i := range p.ids {
		if p.d[i] <= 0 {
			return matrix.Triplets{}, fmt.Errorf("pedigree: individual %q has non-positive sampling variance %g", p.ids[i], p.d[i])
		}
		v := 1 / math.Sqrt(p.d[i])
		t.Append(i, i, v)
		if s := p.sire[i]; s != unknown {
			t.Append(i, s, -0.5*v)
		}
		if d := p.dam[i]; d != unknown {
			t.Append(i, d, -0.5*v)
		}
	}

	return t, nil
}
