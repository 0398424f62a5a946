package repository

import (
	"context"

	"github.com/alexanderramin/tally/internal/domain"
)

// CounterRepo persists named integer counters. The accrual clock stores its
// accrued-seconds total under a single well-known name; writes are
// best-effort from the caller's perspective (the clock logs and continues
// on failure).
type CounterRepo interface {
	Get(ctx context.Context, name string, def int) (int, error)
	Set(ctx context.Context, name string, value int) error
}

// ProjectHistoryRepo persists the set of Rovas project IDs previously used
// for work reports, offered back during target-project resolution.
type ProjectHistoryRepo interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, projectID string) error
	Remove(ctx context.Context, projectID string) error
}

// SubmissionRepo records the outcome of every accepted work-report
// submission for local auditing.
type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error)
}

// AccruedSecondsCounter is the counter name under which the clock persists
// its total.
const AccruedSecondsCounter = "accrued_seconds"
