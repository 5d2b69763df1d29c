// Package upstream calls the external proxy health-check API.
//
// A Client issues exactly one GET per Check, optionally bounded by a timeout,
// and classifies the outcome into a Result or one of the typed failures
// (StatusError, ErrTimeout, ErrNetwork, ErrInvalidResponse). Nothing is
// retried and nothing is cached between calls.
package upstream
