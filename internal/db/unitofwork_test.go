package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSeeded(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`INSERT INTO slots (id, center_id, date, start_time, end_time, total_seats, remaining_seats)
		VALUES ('s1', 'c1', '2026-11-03', '09:00', '13:00', 2, 2)`)
	require.NoError(t, err)
	return database, db.NewSQLiteUnitOfWork(database)
}

func seatsAndBookings(t *testing.T, database *sql.DB) (int, int) {
	t.Helper()
	var seats int
	require.NoError(t, database.QueryRow(`SELECT remaining_seats FROM slots WHERE id = 's1'`).Scan(&seats))
	return seats, testutil.CountRows(t, database, "bookings")
}

func bookS1(ctx context.Context, tx db.DBTX) error {
	if _, err := tx.ExecContext(ctx, `UPDATE slots SET remaining_seats = remaining_seats - 1 WHERE id = 's1'`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO bookings (id, slot_id, booked_at) VALUES ('b1', 's1', '2026-10-19T09:00:00Z')`)
	return err
}

func TestWithinTx_CommitsBothWrites(t *testing.T) {
	database, uow := openSeeded(t)

	require.NoError(t, uow.WithinTx(context.Background(), bookS1))

	seats, bookings := seatsAndBookings(t, database)
	assert.Equal(t, 1, seats)
	assert.Equal(t, 1, bookings)
}

func TestWithinTx_ErrorRollsBackSeatUpdate(t *testing.T) {
	database, uow := openSeeded(t)
	errAbort := errors.New("abort after seat update")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := bookS1(ctx, tx); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	seats, bookings := seatsAndBookings(t, database)
	assert.Equal(t, 2, seats)
	assert.Zero(t, bookings)
}

func TestWithinTx_PanicRollsBackAndRepanics(t *testing.T) {
	database, uow := openSeeded(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = bookS1(ctx, tx)
			panic("boom")
		})
	})

	seats, bookings := seatsAndBookings(t, database)
	assert.Equal(t, 2, seats)
	assert.Zero(t, bookings)
}

func TestWithinTx_ConstraintViolationRollsBack(t *testing.T) {
	database, uow := openSeeded(t)

	// Draining a two-seat slot three times trips the seat CHECK constraint.
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.ExecContext(ctx, `UPDATE slots SET remaining_seats = remaining_seats - 1 WHERE id = 's1'`); err != nil {
				return err
			}
		}
		return nil
	})
	require.Error(t, err)

	seats, _ := seatsAndBookings(t, database)
	assert.Equal(t, 2, seats)
}

func TestWithinTx_CancelledBeforeCommitRollsBack(t *testing.T) {
	database, uow := openSeeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := bookS1(ctx, tx); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	seats, bookings := seatsAndBookings(t, database)
	assert.Equal(t, 2, seats)
	assert.Zero(t, bookings)
}

func TestWithinTx_RuleErrorComesBackUnwrapped(t *testing.T) {
	_, uow := openSeeded(t)
	errFull := errors.New("slot is full")

	err := uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error {
		return errFull
	})
	assert.Same(t, errFull, err)
}
