package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
)

// SQLiteCounterRepo implements CounterRepo using a SQLite database.
type SQLiteCounterRepo struct {
	db db.DBTX
}

// NewSQLiteCounterRepo creates a new SQLiteCounterRepo.
func NewSQLiteCounterRepo(conn db.DBTX) *SQLiteCounterRepo {
	return &SQLiteCounterRepo{db: conn}
}

func (r *SQLiteCounterRepo) Get(ctx context.Context, name string, def int) (int, error) {
	var value int
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE name = ?`, name,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return def, nil
		}
		return def, fmt.Errorf("reading counter %s: %w", name, err)
	}
	return value, nil
}

func (r *SQLiteCounterRepo) Set(ctx context.Context, name string, value int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("writing counter %s: %w", name, err)
	}
	return nil
}
