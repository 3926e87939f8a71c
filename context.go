package lockstep

import (
	"context"

	"go.uber.org/zap"
)

// Context is just the standard context, we alias to keep signatures
// readable and to leave space for a stricter type later.
type Context = context.Context

type contextKey int

const (
	contextKeyLogger contextKey = iota
)

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = zap.NewNop()

// WithLogger stores the logger in the context. Handlers and
// controllers should prefer this logger over a global one so that
// callers can scope log fields per operation.
func WithLogger(ctx Context, logger *zap.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the context, or DefaultLogger if
// none was set.
func GetLogger(ctx Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(*zap.Logger); ok {
		return logger
	}
	return DefaultLogger
}
