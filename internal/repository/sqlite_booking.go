package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

type SQLiteBookingRepo struct {
	db db.DBTX
}

func NewSQLiteBookingRepo(db db.DBTX) *SQLiteBookingRepo {
	return &SQLiteBookingRepo{db: db}
}

func (r *SQLiteBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, slot_id, booked_at) VALUES (?, ?, ?)`,
		b.ID, b.SlotID, b.BookedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	return nil
}

func (r *SQLiteBookingRepo) GetBySlot(ctx context.Context, slotID string) (*domain.Booking, error) {
	var b domain.Booking
	var bookedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slot_id, booked_at FROM bookings WHERE slot_id = ?`, slotID,
	).Scan(&b.ID, &b.SlotID, &bookedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking for slot %s: %w", slotID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning booking: %w", err)
	}
	b.BookedAt = parseTime(bookedAt, time.RFC3339)
	return &b, nil
}

func (r *SQLiteBookingRepo) Delete(ctx context.Context, slotID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE slot_id = ?`, slotID)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("booking for slot %s: %w", slotID, ErrNotFound)
	}
	return nil
}

// List returns bookings ordered by slot date and start time.
func (r *SQLiteBookingRepo) List(ctx context.Context) ([]BookingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.slot_id, b.booked_at,
		        s.id, s.center_id, s.program_id, s.date, s.start_time, s.end_time, s.timezone_label,
		        s.total_seats, s.remaining_seats, s.cancellation_allowed, s.cancellation_cutoff_label
		 FROM bookings b
		 JOIN slots s ON s.id = b.slot_id
		 ORDER BY s.date, s.start_time, s.id`)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var out []BookingRecord
	for rows.Next() {
		var rec BookingRecord
		var bookedAt sql.NullString
		var cancellable int
		s := &rec.Slot
		if err := rows.Scan(&rec.Booking.ID, &rec.Booking.SlotID, &bookedAt,
			&s.ID, &s.CenterID, &s.ProgramID, &s.Date, &s.StartTime, &s.EndTime, &s.TimezoneLabel,
			&s.TotalSeats, &s.RemainingSeats, &cancellable, &s.CancellationCutoffLabel); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		rec.Booking.BookedAt = parseTime(bookedAt, time.RFC3339)
		s.CancellationAllowed = intToBool(cancellable)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteBookingRepo) HeldSlotIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot_id FROM bookings`)
	if err != nil {
		return nil, fmt.Errorf("listing held slots: %w", err)
	}
	defer rows.Close()

	held := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning held slot: %w", err)
		}
		held[id] = true
	}
	return held, rows.Err()
}
