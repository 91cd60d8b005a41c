package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// whole list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS item_progress (
		program_id   TEXT NOT NULL,
		item_id      TEXT NOT NULL,
		status       TEXT NOT NULL
		             CHECK(status IN ('locked','available','in_progress','complete')),
		progress_pct INTEGER NOT NULL DEFAULT 0 CHECK(progress_pct BETWEEN 0 AND 100),
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (program_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS program_consent (
		program_id                TEXT PRIMARY KEY,
		video_watched             INTEGER NOT NULL DEFAULT 0,
		instructions_acknowledged INTEGER NOT NULL DEFAULT 0
		                          CHECK(instructions_acknowledged = 0 OR video_watched = 1),
		updated_at                TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id                        TEXT PRIMARY KEY,
		center_id                 TEXT NOT NULL,
		program_id                TEXT NOT NULL DEFAULT '',
		date                      TEXT NOT NULL,
		start_time                TEXT NOT NULL,
		end_time                  TEXT NOT NULL,
		timezone_label            TEXT NOT NULL DEFAULT '',
		total_seats               INTEGER NOT NULL CHECK(total_seats >= 0),
		remaining_seats           INTEGER NOT NULL,
		cancellation_allowed      INTEGER NOT NULL DEFAULT 1,
		cancellation_cutoff_label TEXT NOT NULL DEFAULT '',
		CHECK(remaining_seats >= 0 AND remaining_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id        TEXT PRIMARY KEY,
		slot_id   TEXT NOT NULL UNIQUE REFERENCES slots(id) ON DELETE CASCADE,
		booked_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS development_plans (
		id           TEXT PRIMARY KEY,
		status       TEXT NOT NULL DEFAULT 'draft'
		             CHECK(status IN ('draft','under_review','approved')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		submitted_at TEXT,
		approved_at  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS plan_skills (
		plan_id     TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		idx         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		skill_type  TEXT NOT NULL CHECK(skill_type IN ('behavioral','technical')),
		gap_score   REAL NOT NULL DEFAULT 0,
		private     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS plan_tips (
		id               TEXT PRIMARY KEY,
		plan_id          TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		skill_idx        INTEGER NOT NULL,
		idx              INTEGER NOT NULL,
		category         TEXT NOT NULL CHECK(category IN ('experience','social','course')),
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		source           TEXT NOT NULL CHECK(source IN ('ai','library')),
		start_date       TEXT,
		end_date         TEXT,
		success_criteria TEXT NOT NULL DEFAULT '',
		insight_text     TEXT NOT NULL DEFAULT '',
		completion_pct   INTEGER NOT NULL DEFAULT 0 CHECK(completion_pct IN (0,25,50,75,100)),
		FOREIGN KEY (plan_id, skill_idx) REFERENCES plan_skills(plan_id, idx) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS plan_comments (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		thread_key TEXT NOT NULL,
		skill      TEXT NOT NULL DEFAULT '',
		author     TEXT NOT NULL CHECK(author IN ('participant','manager')),
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (plan_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_center ON slots(center_id)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_date ON slots(date)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_tips_plan ON plan_tips(plan_id, skill_idx, idx)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_comments_thread ON plan_comments(plan_id, thread_key)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_created ON development_plans(created_at)`,
}
