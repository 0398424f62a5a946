package domain

import (
	"fmt"
	"time"
)

// AccrualState is the persisted accrual counter together with the runtime
// activity bookkeeping the clock needs. Only AccumulatedSeconds survives a
// restart; the tolerance is re-applied from configuration at startup.
type AccrualState struct {
	AccumulatedSeconds int
	LastActivity       time.Time
	ToleranceSeconds   int
}

// ClampSeconds normalizes a manual adjustment: negative input becomes 0.
func ClampSeconds(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}

// Active reports whether a tick at now should count under the
// signal-recency predicate: strictly less than the tolerance.
func (s AccrualState) Active(now time.Time) bool {
	return now.Sub(s.LastActivity) < time.Duration(s.ToleranceSeconds)*time.Second
}

// FormatSeconds renders an accrued total as "3h 12m 5s" (hours omitted
// when zero), matching the status readout.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
