package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory store with every migration applied.
// Each call gets its own database, closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in table, for asserting that a
// rolled-back use case wrote nothing.
func CountRows(t testing.TB, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n), "counting %s", table)
	return n
}
