// SPDX-License-Identifier: MIT

package table

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// missingMarkers are the cell spellings treated as "no value".
var missingMarkers = []string{"", "NA", "na", "N/A", ".", "NaN", "nan", "NULL", "null"}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	return slices.Contains(missingMarkers, strings.TrimSpace(cell))
}

// Table is an in-memory, column-oriented observation table.
// Rows correspond to records; columns are addressed by name.
type Table struct {
	names []string
	index map[string]int
	cols  [][]string
	n     int
}

// New builds a table from a header and row-major cells.
// Every row must have exactly len(names) cells.
func New(names []string, rows [][]string) (*Table, error) {
	t, err := empty(names, len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d: %w", i, len(row), len(names), ErrRaggedRow)
		}
		for j, cell := range row {
			t.cols[j][i] = strings.TrimSpace(cell)
		}
	}

	return t, nil
}

// FromColumns builds a table from column-major cells; columns[k] belongs to names[k].
func FromColumns(names []string, columns [][]string) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%d names for %d columns: %w", len(names), len(columns), ErrRaggedRow)
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}
	t, err := empty(names, n)
	if err != nil {
		return nil, err
	}
	for k, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("column %q has %d cells, want %d: %w", names[k], len(col), n, ErrRaggedRow)
		}
		for i, cell := range col {
			t.cols[k][i] = strings.TrimSpace(cell)
		}
	}

	return t, nil
}

func empty(names []string, n int) (*Table, error) {
	t := &Table{
		names: slices.Clone(names),
		index: make(map[string]int, len(names)),
		cols:  make([][]string, len(names)),
		n:     n,
	}
	for k, name := range names {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%q: %w", name, ErrDuplicateColumn)
		}
		t.index[name] = k
		t.cols[k] = make([]string, n)
	}

	return t, nil
}

// NumRows returns the number of records.
func (t *Table) NumRows() int { return t.n }

// Names returns the column names in header order.
func (t *Table) Names() []string { return slices.Clone(t.names) }

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) column(name string) ([]string, error) {
	k, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}

	return t.cols[k], nil
}

// Strings returns a copy of the raw cells of a column.
func (t *Table) Strings(name string) ([]string, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}

	return slices.Clone(col), nil
}

// Floats parses a column as numbers; missing cells become NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	return t.FloatsOr(name, math.NaN())
}

// FloatsOr parses a column as numbers, substituting fill for missing cells.
func (t *Table) FloatsOr(name string, fill float64) ([]float64, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, cell := range col {
		if IsMissing(cell) {
			out[i] = fill
			continue
		}
		v, perr := strconv.ParseFloat(cell, 64)
		if perr != nil {
			return nil, fmt.Errorf("column %q row %d value %q: %w", name, i, cell, ErrNotNumeric)
		}
		out[i] = v
	}

	return out, nil
}

// Observed reports, per row, whether the column holds a non-missing cell.
func (t *Table) Observed(name string) ([]bool, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(col))
	for i, cell := range col {
		out[i] = !IsMissing(cell)
	}

	return out, nil
}
