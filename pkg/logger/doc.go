// Package logger builds the application's slog.Logger: text output in dev
// and staging, JSON in prod, with an optional size-rotated log file.
package logger
