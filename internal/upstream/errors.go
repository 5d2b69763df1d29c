package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout         = errors.New("upstream health check timed out")
	ErrNetwork         = errors.New("upstream request failed")
	ErrInvalidResponse = errors.New("upstream returned an invalid response")
)

// StatusError reports a non-2xx answer from the upstream.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream responded %s", e.Status)
	}
	return fmt.Sprintf("upstream responded %s: %s", e.Status, e.Body)
}
