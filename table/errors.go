// SPDX-License-Identifier: MIT

package table

import "errors"

var (
	// ErrUnknownColumn is returned when a referenced column is absent.
	ErrUnknownColumn = errors.New("table: unknown column")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("table: duplicate column")

	// ErrRaggedRow is returned when a row has a different width than the header.
	ErrRaggedRow = errors.New("table: row width differs from header")

	// ErrNotNumeric is returned when a non-missing cell cannot be parsed as a number.
	ErrNotNumeric = errors.New("table: cell is not numeric")
)
