package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories query through. Outside a unit of work it is the
// *sql.DB itself; inside WithinTx it is the transaction, so a repository
// built from it joins the caller's atomic write.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
