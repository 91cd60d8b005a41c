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

type SQLiteConsentRepo struct {
	db db.DBTX
}

func NewSQLiteConsentRepo(db db.DBTX) *SQLiteConsentRepo {
	return &SQLiteConsentRepo{db: db}
}

func (r *SQLiteConsentRepo) Get(ctx context.Context, programID string) (*domain.ConsentState, error) {
	var c domain.ConsentState
	var video, ack int
	var updatedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT program_id, video_watched, instructions_acknowledged, updated_at
		 FROM program_consent WHERE program_id = ?`, programID,
	).Scan(&c.ProgramID, &video, &ack, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("consent: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning consent: %w", err)
	}
	c.VideoWatched = intToBool(video)
	c.InstructionsAcknowledged = intToBool(ack)
	c.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &c, nil
}

func (r *SQLiteConsentRepo) Upsert(ctx context.Context, c *domain.ConsentState) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO program_consent (program_id, video_watched, instructions_acknowledged, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(program_id) DO UPDATE SET
		   video_watched = excluded.video_watched,
		   instructions_acknowledged = excluded.instructions_acknowledged,
		   updated_at = excluded.updated_at`,
		c.ProgramID, boolToInt(c.VideoWatched), boolToInt(c.InstructionsAcknowledged),
		updated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting consent: %w", err)
	}
	return nil
}
