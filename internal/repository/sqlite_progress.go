package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

type SQLiteProgressRepo struct {
	db db.DBTX
}

func NewSQLiteProgressRepo(db db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: db}
}

func (r *SQLiteProgressRepo) ListStates(ctx context.Context, programID string) ([]domain.ItemState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, status, progress_pct FROM item_progress
		 WHERE program_id = ? ORDER BY item_id`, programID)
	if err != nil {
		return nil, fmt.Errorf("listing item progress: %w", err)
	}
	defer rows.Close()

	var out []domain.ItemState
	for rows.Next() {
		var s domain.ItemState
		var status string
		if err := rows.Scan(&s.ItemID, &status, &s.ProgressPct); err != nil {
			return nil, fmt.Errorf("scanning item progress: %w", err)
		}
		s.Status = domain.ItemStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertStates writes every state for the program. Items not in states
// keep their stored rows.
func (r *SQLiteProgressRepo) UpsertStates(ctx context.Context, programID string, states []domain.ItemState) error {
	now := nowUTC()
	for _, s := range states {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO item_progress (program_id, item_id, status, progress_pct, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(program_id, item_id) DO UPDATE SET
			   status = excluded.status,
			   progress_pct = excluded.progress_pct,
			   updated_at = excluded.updated_at
			 WHERE item_progress.status != excluded.status
			    OR item_progress.progress_pct != excluded.progress_pct`,
			programID, s.ItemID, string(s.Status), s.ProgressPct, now,
		)
		if err != nil {
			return fmt.Errorf("upserting progress for %s: %w", s.ItemID, err)
		}
	}
	return nil
}

func (r *SQLiteProgressRepo) Reset(ctx context.Context, programID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM item_progress WHERE program_id = ?`, programID); err != nil {
		return fmt.Errorf("resetting progress: %w", err)
	}
	return nil
}
