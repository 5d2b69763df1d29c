// Package handler exposes the check pipeline over net/http and AWS API
// Gateway, plus the liveness and readiness endpoints.
package handler
