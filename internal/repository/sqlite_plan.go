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

// SQLitePlanRepo stores a plan across development_plans, plan_skills and
// plan_tips. Reads also load the plan's comments.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(db db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: db}
}

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.DevelopmentPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO development_plans (id, status, created_at, updated_at, submitted_at, approved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   updated_at = excluded.updated_at,
		   submitted_at = excluded.submitted_at,
		   approved_at = excluded.approved_at`,
		p.ID, string(p.Status),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		nullableUTC(p.SubmittedAt), nullableUTC(p.ApprovedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_tips WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plan tips: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_skills WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plan skills: %w", err)
	}

	for si, s := range p.Skills {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_skills (plan_id, idx, name, description, skill_type, gap_score, private)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, si, s.Name, s.Description, string(s.Type), s.GapScore, boolToInt(s.Private),
		)
		if err != nil {
			return fmt.Errorf("inserting skill %q: %w", s.Name, err)
		}
		for ti, t := range s.Tips {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO plan_tips (id, plan_id, skill_idx, idx, category, title, description, source,
				   start_date, end_date, success_criteria, insight_text, completion_pct)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, p.ID, si, ti, string(t.Category), t.Title, t.Description, string(t.Source),
				dateToString(t.StartDate), dateToString(t.EndDate),
				t.SuccessCriteria, t.InsightText, t.CompletionPct,
			)
			if err != nil {
				return fmt.Errorf("inserting tip %s: %w", t.ID, err)
			}
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.DevelopmentPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, status, created_at, updated_at, submitted_at, approved_at
		 FROM development_plans WHERE id = ?`, id)
	return r.load(ctx, row)
}

// Latest returns the most recently created plan.
func (r *SQLitePlanRepo) Latest(ctx context.Context) (*domain.DevelopmentPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, status, created_at, updated_at, submitted_at, approved_at
		 FROM development_plans ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return r.load(ctx, row)
}

// List returns plan headers, newest first. Skills, tips and comments are
// not loaded.
func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.DevelopmentPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status, created_at, updated_at, submitted_at, approved_at
		 FROM development_plans ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var out []*domain.DevelopmentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLitePlanRepo) load(ctx context.Context, row rowScanner) (*domain.DevelopmentPlan, error) {
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("development plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	if p.Skills, err = r.loadSkills(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Comments, err = NewSQLiteCommentRepo(r.db).ListByPlan(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) loadSkills(ctx context.Context, planID string) ([]domain.Skill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, description, skill_type, gap_score, private
		 FROM plan_skills WHERE plan_id = ? ORDER BY idx`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan skills: %w", err)
	}
	var skills []domain.Skill
	for rows.Next() {
		var s domain.Skill
		var skillType string
		var private int
		if err := rows.Scan(&s.Name, &s.Description, &skillType, &s.GapScore, &private); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning plan skill: %w", err)
		}
		s.Type = domain.SkillType(skillType)
		s.Private = intToBool(private)
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	tips, err := r.db.QueryContext(ctx,
		`SELECT skill_idx, id, category, title, description, source, start_date, end_date,
		        success_criteria, insight_text, completion_pct
		 FROM plan_tips WHERE plan_id = ? ORDER BY skill_idx, idx`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan tips: %w", err)
	}
	defer tips.Close()
	for tips.Next() {
		var skillIdx int
		var t domain.Tip
		var category, source string
		var start, end sql.NullString
		if err := tips.Scan(&skillIdx, &t.ID, &category, &t.Title, &t.Description, &source,
			&start, &end, &t.SuccessCriteria, &t.InsightText, &t.CompletionPct); err != nil {
			return nil, fmt.Errorf("scanning plan tip: %w", err)
		}
		if skillIdx < 0 || skillIdx >= len(skills) {
			return nil, fmt.Errorf("tip %s references missing skill %d", t.ID, skillIdx)
		}
		t.Category = domain.TipCategory(category)
		t.Source = domain.TipSource(source)
		t.StartDate = parseTime(start, time.DateOnly)
		t.EndDate = parseTime(end, time.DateOnly)
		skills[skillIdx].Tips = append(skills[skillIdx].Tips, t)
	}
	return skills, tips.Err()
}

func scanPlan(row rowScanner) (*domain.DevelopmentPlan, error) {
	var p domain.DevelopmentPlan
	var status string
	var createdAt, updatedAt, submittedAt, approvedAt sql.NullString
	if err := row.Scan(&p.ID, &status, &createdAt, &updatedAt, &submittedAt, &approvedAt); err != nil {
		return nil, err
	}
	p.Status = domain.PlanStatus(status)
	p.CreatedAt = parseTime(createdAt, time.RFC3339)
	p.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	p.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	p.ApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	return &p, nil
}

func nullableUTC(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return nullableTimeToString(&u, time.RFC3339)
}

// dateToString keeps the calendar date as given, without a zone shift.
func dateToString(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}
