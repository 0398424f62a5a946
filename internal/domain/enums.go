package domain

import "fmt"

// ActivityPolicy selects how the accrual clock decides whether a tick counts.
type ActivityPolicy string

const (
	// PolicySignalRecency counts a tick only when an activity signal was
	// observed within the inactivity tolerance.
	PolicySignalRecency ActivityPolicy = "signal-recency"

	// PolicyAlwaysOn counts every tick while the focus source reports the
	// host as focused, regardless of recent signals.
	PolicyAlwaysOn ActivityPolicy = "always-on"
)

// ParseActivityPolicy validates a policy string from configuration.
func ParseActivityPolicy(s string) (ActivityPolicy, error) {
	switch ActivityPolicy(s) {
	case PolicySignalRecency, PolicyAlwaysOn:
		return ActivityPolicy(s), nil
	}
	return "", fmt.Errorf("unknown activity policy %q", s)
}

// SubmissionOutcome records how a work-report submission ended.
type SubmissionOutcome string

const (
	OutcomeCreated     SubmissionOutcome = "created"      // report id returned
	OutcomeCreatedNoID SubmissionOutcome = "created_noid" // 2xx but id missing from body
	OutcomeFailed      SubmissionOutcome = "failed"       // non-2xx or transport error
)
