package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/tally/internal/vcs"
)

// DefaultPollInterval is how often a watcher checks for a new head.
const DefaultPollInterval = 5 * time.Second

// CommitWatcher polls one repository's head revision and hands new commits
// to the workflow. Each watcher owns its own last-seen state; a poll that
// is still running causes the next interval to be skipped rather than
// overlapped.
type CommitWatcher struct {
	repo     vcs.Repository
	wf       *Workflow
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	lastSeen string
	polling  bool
}

// NewCommitWatcher creates a watcher for repo. interval <= 0 uses the
// default.
func NewCommitWatcher(repo vcs.Repository, wf *Workflow, interval time.Duration, logger *slog.Logger) *CommitWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommitWatcher{
		repo:     repo,
		wf:       wf,
		interval: interval,
		logger:   logger,
	}
}

// Prime records the current head so history that predates the daemon is
// never treated as a new commit.
func (w *CommitWatcher) Prime(ctx context.Context) {
	head, err := w.repo.Head(ctx)
	if err != nil {
		w.logger.Warn("initial head lookup failed", "repo", w.repo.Dir(), "error", err)
		return
	}
	w.mu.Lock()
	w.lastSeen = head
	w.mu.Unlock()
}

// Run polls until ctx is cancelled.
func (w *CommitWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll performs one change-detection pass. The in-flight guard makes
// overlapping polls for the same repository impossible: a slow submission
// (network, prompts awaiting the user) causes later ticks to no-op.
func (w *CommitWatcher) Poll(ctx context.Context) {
	w.mu.Lock()
	if w.polling {
		w.mu.Unlock()
		return
	}
	w.polling = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.polling = false
		w.mu.Unlock()
	}()

	head, err := w.repo.Head(ctx)
	if err != nil {
		w.logger.Warn("head lookup failed", "repo", w.repo.Dir(), "error", err)
		return
	}
	if head == "" {
		return
	}

	w.mu.Lock()
	changed := head != w.lastSeen
	// Mark seen unconditionally so a declined or skipped submission never
	// re-prompts for the same commit.
	w.lastSeen = head
	w.mu.Unlock()

	if !changed {
		return
	}

	w.wf.HandleNewCommit(ctx, w.repo, head)
}

// LastSeen returns the revision most recently observed.
func (w *CommitWatcher) LastSeen() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}
