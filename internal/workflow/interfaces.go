package workflow

import (
	"context"
	"errors"
)

// ErrCancelled is returned by a Prompter when the user dismisses a prompt.
// Cancellation aborts the submission silently; it is not an error condition.
var ErrCancelled = errors.New("cancelled")

// Prompter collects the two user decisions in the submission flow.
type Prompter interface {
	// Confirm asks a yes/no question. Declining is a normal outcome.
	Confirm(ctx context.Context, prompt string) (bool, error)

	// PickProjectID resolves the target project: the configured default,
	// an entry from history, or a newly entered id. enteredNew reports
	// whether the id was typed in rather than picked.
	PickProjectID(ctx context.Context, configured string, history []string) (id string, enteredNew bool, err error)
}

// Notifier delivers user-facing messages. The workflow never prints
// directly; the CLI and tests provide implementations.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// TimeSource exposes the accrued total the payload is built from. The
// workflow reads it at submission time only.
type TimeSource interface {
	AccumulatedSeconds() int
}
