package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/google/uuid"
)

type SQLiteCommentRepo struct {
	db db.DBTX
}

func NewSQLiteCommentRepo(db db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: db}
}

// Append stores c after the plan's last comment. An empty ID is filled in.
func (r *SQLiteCommentRepo) Append(ctx context.Context, planID string, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_comments (id, plan_id, seq, thread_key, skill, author, body, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM plan_comments WHERE plan_id = ?), ?, ?, ?, ?, ?)`,
		c.ID, planID, planID, c.Thread.String(), c.Thread.Skill, string(c.Author), c.Text,
		c.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *SQLiteCommentRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, thread_key, skill, author, body, created_at
		 FROM plan_comments WHERE plan_id = ? ORDER BY seq`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var key, skill, author string
		var at sql.NullString
		if err := rows.Scan(&c.ID, &key, &skill, &author, &c.Text, &at); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		thread, err := domain.ParseThreadKey(key)
		if err != nil {
			return nil, fmt.Errorf("comment %s: %w", c.ID, err)
		}
		if thread.TipID != "" {
			thread.Skill = skill
		}
		c.Thread = thread
		c.Author = domain.Author(author)
		c.At = parseTime(at, time.RFC3339)
		out = append(out, c)
	}
	return out, rows.Err()
}
