package pg

import "context"

// logger is the subset of *slog.Logger the migration runner needs. Goose
// output is routed through it instead of stdout/stderr.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
