package logging

import (
	"log/slog"
	"time"
)

// Standard attribute keys. The JSON log keeps them verbatim so `taildrop logs`
// can filter on them.
const (
	FieldComponent     = "component"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	FieldImpact        = "impact"
	FieldCorrelationID = "correlation_id"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error renders err under the "error" key; a nil error is logged as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Args adapts attrs to the variadic ...any form slog's level methods take.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact, filling defaults for any the caller left out.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	defaults := []Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, "run `taildrop logs` for details"),
		String(FieldImpact, "operation completed with warnings"),
	}
	for _, def := range defaults {
		if !hasKey(attrs, def.Key) {
			attrs = append(attrs, def)
		}
	}
	logger.Warn(msg, Args(attrs...)...)
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}
