// SPDX-License-Identifier: MIT

package table_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/katalvlaran/mixedmodel/table"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with a small phenotype table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE phenotypes (id TEXT, herd TEXT, age INTEGER, bw REAL);
		INSERT INTO phenotypes VALUES
			('a1', 'h1', 2, 10.5),
			('a2', 'h2', NULL, 12.0),
			('a3', 'h1', 4, NULL);
	`)
	require.NoError(t, err)

	return db
}

func TestFromQuery(t *testing.T) {
	db := setupTestDB(t)

	tbl, err := table.FromQuery(context.Background(), db, "SELECT id, herd, age, bw FROM phenotypes ORDER BY id")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())
	require.Equal(t, []string{"id", "herd", "age", "bw"}, tbl.Names())

	ids, err := tbl.Strings("id")
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "a2", "a3"}, ids)

	age, err := tbl.FloatsOr("age", -1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, -1, 4}, age) // NULL is missing

	bw, err := tbl.Observed("bw")
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, false}, bw)
}

func TestFromQueryBadSQL(t *testing.T) {
	db := setupTestDB(t)
	_, err := table.FromQuery(context.Background(), db, "SELECT nope FROM missing")
	require.Error(t, err)
}
