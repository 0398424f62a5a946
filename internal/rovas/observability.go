package rovas

import (
	"fmt"
	"io"
	"time"
)

// APICallEvent records metadata about a single Rovas API invocation.
type APICallEvent struct {
	Operation  string // "create_work_report" or "create_usage_fee"
	StatusCode int
	LatencyMs  int64
	Success    bool
	Err        string
}

// Observer receives events about API calls for logging and diagnosis. The
// fee-charge path in particular is never surfaced to the user, so the
// observer is its only window into failures.
type Observer interface {
	OnCallComplete(event APICallEvent)
}

// LogObserver writes API call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event APICallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.Err
	}
	fmt.Fprintf(o.w, "[%s] rovas_call op=%s http_status=%d latency_ms=%d status=%s\n",
		ts, event.Operation, event.StatusCode, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(APICallEvent) {}
