package commands

import (
	"context"
	"log/slog"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

type loggerKey struct{}

// WithLogger returns a context carrying the diagnostic logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger stored by WithLogger, or a logger that
// discards everything.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
