package logging

import (
	"context"
	"log/slog"
)

type correlationKey struct{}

// WithCorrelationID stores a request identifier on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the identifier stored by WithCorrelationID.
func CorrelationID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := CorrelationID(ctx); ok {
		return logger.With(String(FieldCorrelationID, id))
	}
	return logger
}
