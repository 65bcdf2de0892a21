// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for constructors and numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors,
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Options fields are unexported; public APIs consume ...Option.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true

	// DefaultKeepZeros controls whether explicit zero entries survive compression
	// into a Sparse. false ⇒ zeros (and duplicates summing to zero) are dropped.
	DefaultKeepZeros = false
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
	keepZeros      bool // DefaultKeepZeros
}

// WithValidateNaNInf enables strict finite-value validation (default).
//
// Behavior highlights:
//   - NewSparse rejects NaN/±Inf triplet values with ErrNaNInf.
//   - Matrices created with the option reject NaN/±Inf in Set.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation (use with care).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithKeepZeros keeps explicit zero entries as structural non-zeros when
// compressing triplets. Useful when a caller wants to reserve sparsity
// structure for later in-place updates.
func WithKeepZeros() Option {
	return func(o *Options) { o.keepZeros = true }
}

// gatherOptions applies user setters over the documented defaults.
// Complexity: O(len(user)).
func gatherOptions(user ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		keepZeros:      DefaultKeepZeros,
	}
	for _, set := range user {
		if set != nil {
			set(&o) // apply in order; last-writer-wins semantics
		}
	}

	return o
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
