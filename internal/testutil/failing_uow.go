package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/meridian/internal/db"
)

// FailingUoW runs transactions against DB but makes a chosen write fail, so
// tests can check that a multi-step use case leaves nothing half-written.
//
// A write fails when its SQL contains Statement (e.g. "INSERT INTO bookings")
// and Skip earlier matching writes have already gone through. Reads are
// never intercepted.
type FailingUoW struct {
	DB        *sql.DB
	Statement string
	Skip      int
	Err       error

	mu      sync.Mutex
	matched int
	fired   bool
}

// Fired reports whether the injected error was returned at least once.
func (u *FailingUoW) Fired() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fired
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &interceptingTx{DBTX: tx, owner: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (u *FailingUoW) shouldFail(query string) bool {
	if !strings.Contains(query, u.Statement) {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.matched++
	if u.matched == u.Skip+1 {
		u.fired = true
		return true
	}
	return false
}

type interceptingTx struct {
	db.DBTX
	owner *FailingUoW
}

func (t *interceptingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if t.owner.shouldFail(query) {
		return nil, t.owner.Err
	}
	return t.DBTX.ExecContext(ctx, query, args...)
}
