package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

// NewSQLiteSubmissionRepo creates a new SQLiteSubmissionRepo.
func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, revision, project_id, hours, report_id, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.Revision,
		s.ProjectID,
		s.Hours,
		s.ReportID,
		string(s.Outcome),
		s.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, revision, project_id, hours, report_id, outcome, created_at
		FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		var s domain.Submission
		var outcome, createdAt string
		if err := rows.Scan(&s.ID, &s.Revision, &s.ProjectID, &s.Hours, &s.ReportID, &outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		s.Outcome = domain.SubmissionOutcome(outcome)
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			s.CreatedAt = t
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return out, nil
}
