// Package logging provides structured logging built on log/slog.
//
// Components obtain scoped loggers via slog.Default().With("component", name)
// after Setup has installed the process-wide default.
package logging
