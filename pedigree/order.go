// SPDX-License-Identifier: MIT

package pedigree

import (
	"context"
	"fmt"
)

// Visitation states of the depth-first ordering.
const (
	white = iota // not yet visited
	gray         // on the current ancestry path
	black        // placed in the order
)

// orderer places every individual after its parents.
type orderer struct {
	ctx     context.Context
	parents map[string][2]string // id → (sire, dam), "" when unknown
	state   map[string]int
	order   []string
}

// visit places the ancestors of id, then id itself.
func (o *orderer) visit(id string) error {
	select {
	case <-o.ctx.Done():
		return o.ctx.Err()
	default:
	}
	switch o.state[id] {
	case gray:
		return fmt.Errorf("at %q: %w", id, ErrCycle)
	case black:
		return nil
	}
	o.state[id] = gray
	for _, p := range o.parents[id] {
		if p == "" {
			continue
		}
		if err := o.visit(p); err != nil {
			return err
		}
	}
	o.state[id] = black
	o.order = append(o.order, id)

	return nil
}

// sortAncestorsFirst returns ids ordered so that parents precede offspring.
// seed fixes the tie order; parents missing from seed are placed as founders.
func sortAncestorsFirst(ctx context.Context, seed []string, parents map[string][2]string) ([]string, error) {
	o := &orderer{
		ctx:     ctx,
		parents: parents,
		state:   make(map[string]int, len(parents)),
		order:   make([]string, 0, len(parents)),
	}
	for _, id := range seed {
		if o.state[id] == white {
			if err := o.visit(id); err != nil {
				return nil, err
			}
		}
	}

	return o.order, nil
}
