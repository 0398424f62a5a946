package tracker

import (
	"context"
	"time"
)

// Run drives the clock with one tick per second until ctx is cancelled.
// Ticks never block: persistence errors are absorbed by the clock itself.
func Run(ctx context.Context, clock *AccrualClock) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clock.Tick(ctx)
		}
	}
}
