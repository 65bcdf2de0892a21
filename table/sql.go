// SPDX-License-Identifier: MIT

package table

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// FromRows drains a database/sql result set into a Table. Column names come
// from the result set; NULL becomes a missing cell. The caller keeps
// ownership of rows and must close it.
func FromRows(rows *sql.Rows) (*Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var cells [][]string
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", len(cells), err)
		}
		row := make([]string, len(names))
		for i, v := range values {
			row[i] = formatCell(v)
		}
		cells = append(cells, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return New(names, cells)
}

// FromQuery runs query on db and returns the result as a Table.
func FromQuery(ctx context.Context, db *sql.DB, query string, args ...any) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return FromRows(rows)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
