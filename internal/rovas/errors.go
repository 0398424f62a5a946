package rovas

import "fmt"

// StatusError is returned when an endpoint answers with a non-2xx status.
// It carries the raw body so the failure can be shown to the user verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Body)
}
