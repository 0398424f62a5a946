package db

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent and re-run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS project_history (
		project_id TEXT PRIMARY KEY,
		added_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		revision   TEXT NOT NULL,
		project_id TEXT NOT NULL,
		hours      REAL NOT NULL,
		report_id  INTEGER NOT NULL DEFAULT 0,
		outcome    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_created_at
		ON submissions(created_at)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
