// SPDX-License-Identifier: MIT

package pedigree

import "errors"

var (
	// ErrEmptyID indicates a record without an individual identifier.
	ErrEmptyID = errors.New("pedigree: empty individual id")

	// ErrDuplicateID indicates an individual recorded more than once.
	ErrDuplicateID = errors.New("pedigree: duplicate individual")

	// ErrSelfParent indicates an individual listed as its own sire or dam.
	ErrSelfParent = errors.New("pedigree: individual is its own parent")

	// ErrCycle indicates an individual that is its own ancestor.
	ErrCycle = errors.New("pedigree: cycle in ancestry")
)
