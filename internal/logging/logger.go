// Package logging defines the structured-logging interface used across the
// board and its slog-backed implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "entry added", "session", id, "category", cat)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions, such as a stale
	// revision or a rejected admin passphrase.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures, such as an unreachable store.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
