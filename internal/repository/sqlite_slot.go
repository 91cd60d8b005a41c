package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

type SQLiteSlotRepo struct {
	db db.DBTX
}

func NewSQLiteSlotRepo(db db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: db}
}

const slotColumns = `id, center_id, program_id, date, start_time, end_time, timezone_label,
	total_seats, remaining_seats, cancellation_allowed, cancellation_cutoff_label`

func (r *SQLiteSlotRepo) SeedMissing(ctx context.Context, slots []domain.Slot) (int, error) {
	inserted := 0
	for _, s := range slots {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO slots (`+slotColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			s.ID, s.CenterID, s.ProgramID, s.Date, s.StartTime, s.EndTime, s.TimezoneLabel,
			s.TotalSeats, s.RemainingSeats, boolToInt(s.CancellationAllowed), s.CancellationCutoffLabel,
		)
		if err != nil {
			return inserted, fmt.Errorf("seeding slot %s: %w", s.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("seeding slot %s: %w", s.ID, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func (r *SQLiteSlotRepo) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning slot: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSlotRepo) List(ctx context.Context, f SlotFilter) ([]domain.Slot, error) {
	var where []string
	var args []any
	if f.CenterID != "" {
		where = append(where, "center_id = ?")
		args = append(args, f.CenterID)
	}
	if f.FromDate != "" {
		where = append(where, "date >= ?")
		args = append(args, f.FromDate)
	}
	if f.ToDate != "" {
		where = append(where, "date <= ?")
		args = append(args, f.ToDate)
	}
	query := `SELECT ` + slotColumns + ` FROM slots`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, start_time, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var out []domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteSlotRepo) UpdateSeats(ctx context.Context, id string, remaining int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE slots SET remaining_seats = ? WHERE id = ?`, remaining, id)
	if err != nil {
		return fmt.Errorf("updating seats for slot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating seats for slot %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (domain.Slot, error) {
	var s domain.Slot
	var cancellable int
	err := row.Scan(&s.ID, &s.CenterID, &s.ProgramID, &s.Date, &s.StartTime, &s.EndTime, &s.TimezoneLabel,
		&s.TotalSeats, &s.RemainingSeats, &cancellable, &s.CancellationCutoffLabel)
	s.CancellationAllowed = intToBool(cancellable)
	return s, err
}
