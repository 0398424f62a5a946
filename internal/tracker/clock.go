package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
)

// FocusSource reports whether the host is focused. Only consulted by the
// always-on policy.
type FocusSource interface {
	Focused() bool
}

// alwaysFocused is the default FocusSource for a foreground daemon.
type alwaysFocused struct{}

func (alwaysFocused) Focused() bool { return true }

// AccrualClock credits one second of working time per tick while the
// activity predicate holds, and persists the running total after every
// mutation. Persistence failures are logged, never surfaced; the in-memory
// counter stays authoritative until the next successful write.
type AccrualClock struct {
	mu     sync.Mutex
	state  domain.AccrualState
	policy domain.ActivityPolicy

	counters repository.CounterRepo
	focus    FocusSource
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an AccrualClock.
type Option func(*AccrualClock)

// WithNow substitutes the time source, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *AccrualClock) { c.now = now }
}

// WithPolicy selects the activity predicate.
func WithPolicy(p domain.ActivityPolicy) Option {
	return func(c *AccrualClock) { c.policy = p }
}

// WithFocusSource installs the focus probe used by the always-on policy.
func WithFocusSource(f FocusSource) Option {
	return func(c *AccrualClock) { c.focus = f }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *AccrualClock) { c.logger = l }
}

// NewAccrualClock creates a clock with the given inactivity tolerance.
// The last-activity instant starts at "now", so a fresh clock begins Active.
func NewAccrualClock(counters repository.CounterRepo, toleranceSeconds int, opts ...Option) *AccrualClock {
	c := &AccrualClock{
		policy:   domain.PolicySignalRecency,
		counters: counters,
		focus:    alwaysFocused{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = domain.AccrualState{
		LastActivity:     c.now(),
		ToleranceSeconds: toleranceSeconds,
	}
	return c
}

// Load restores the persisted total, defaulting to 0 when absent.
func (c *AccrualClock) Load(ctx context.Context) error {
	seconds, err := c.counters.Get(ctx, repository.AccruedSecondsCounter, 0)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.state.AccumulatedSeconds = domain.ClampSeconds(seconds)
	c.mu.Unlock()
	return nil
}

// Tick evaluates the activity predicate for the current second and, when it
// holds, increments the total and persists it.
func (c *AccrualClock) Tick(ctx context.Context) {
	c.mu.Lock()
	if !c.activeLocked(c.now()) {
		c.mu.Unlock()
		return
	}
	c.state.AccumulatedSeconds++
	total := c.state.AccumulatedSeconds
	c.mu.Unlock()

	c.persist(ctx, total)
}

// RecordActivity marks now as the last observed activity signal.
func (c *AccrualClock) RecordActivity() {
	c.mu.Lock()
	c.state.LastActivity = c.now()
	c.mu.Unlock()
}

// AccumulatedSeconds returns the current total.
func (c *AccrualClock) AccumulatedSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.AccumulatedSeconds
}

// SetAccumulatedSeconds overwrites the total, clamping negatives to 0, and
// persists immediately. Used by manual adjustment.
func (c *AccrualClock) SetAccumulatedSeconds(ctx context.Context, seconds int) error {
	clamped := domain.ClampSeconds(seconds)
	c.mu.Lock()
	c.state.AccumulatedSeconds = clamped
	c.mu.Unlock()
	return c.counters.Set(ctx, repository.AccruedSecondsCounter, clamped)
}

// Reset zeroes the total and persists.
func (c *AccrualClock) Reset(ctx context.Context) error {
	return c.SetAccumulatedSeconds(ctx, 0)
}

// SetInactivityTolerance updates the threshold; takes effect on the next tick.
func (c *AccrualClock) SetInactivityTolerance(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.mu.Lock()
	c.state.ToleranceSeconds = seconds
	c.mu.Unlock()
}

// Active reports whether a tick happening now would count.
func (c *AccrualClock) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked(c.now())
}

// Snapshot returns a copy of the clock state for display.
func (c *AccrualClock) Snapshot() domain.AccrualState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *AccrualClock) activeLocked(now time.Time) bool {
	switch c.policy {
	case domain.PolicyAlwaysOn:
		return c.focus.Focused()
	default:
		return c.state.Active(now)
	}
}

func (c *AccrualClock) persist(ctx context.Context, total int) {
	if err := c.counters.Set(ctx, repository.AccruedSecondsCounter, total); err != nil {
		c.logger.Warn("accrual persist failed", "error", err, "seconds", total)
	}
}
