package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
)

const timeLayout = time.RFC3339

// SQLiteProjectHistoryRepo implements ProjectHistoryRepo using a SQLite database.
type SQLiteProjectHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteProjectHistoryRepo creates a new SQLiteProjectHistoryRepo.
func NewSQLiteProjectHistoryRepo(conn db.DBTX) *SQLiteProjectHistoryRepo {
	return &SQLiteProjectHistoryRepo{db: conn}
}

func (r *SQLiteProjectHistoryRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id FROM project_history ORDER BY added_at, project_id`)
	if err != nil {
		return nil, fmt.Errorf("listing project history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project history: %w", err)
	}
	return ids, nil
}

func (r *SQLiteProjectHistoryRepo) Add(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_history (project_id, added_at) VALUES (?, ?)
		ON CONFLICT(project_id) DO NOTHING`,
		projectID, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("adding project id %s: %w", projectID, err)
	}
	return nil
}

func (r *SQLiteProjectHistoryRepo) Remove(ctx context.Context, projectID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_history WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("removing project id %s: %w", projectID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing project id %s: %w", projectID, err)
	}
	if affected == 0 {
		return fmt.Errorf("project id %s: %w", projectID, ErrNotFound)
	}
	return nil
}
