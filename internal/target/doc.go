// Package target parses and validates the host:port pair a caller wants
// health-checked. A Target lives for a single request and is never stored.
package target
