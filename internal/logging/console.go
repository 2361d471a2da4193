package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2026-01-02T15:04:05Z WARN status[req-1]: refresh failed key=value ...
//
// The component and correlation ID are lifted out of the attributes into the
// line prefix.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	source bool

	component string
	requestID string
	// preformatted holds " key=value" pairs added through WithAttrs.
	preformatted string
	group        string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	component, requestID := h.component, h.requestID
	var fields strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" {
			switch a.Key {
			case FieldComponent:
				component = a.Value.String()
				return true
			case FieldCorrelationID:
				requestID = a.Value.String()
				return true
			}
		}
		writeAttr(&fields, h.group, a)
		return true
	})

	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelName(r.Level))
	b.WriteByte(' ')
	if component != "" {
		b.WriteString(component)
		if requestID != "" {
			b.WriteString("[" + requestID + "]")
		}
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.source && r.PC != 0 {
		if src := r.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	if component == "" && requestID != "" {
		writeAttr(&b, "", slog.String(FieldCorrelationID, requestID))
	}
	b.WriteString(h.preformatted)
	b.WriteString(fields.String())
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var pre strings.Builder
	pre.WriteString(h.preformatted)
	for _, a := range attrs {
		if h.group == "" && a.Key == FieldComponent {
			next.component = a.Value.String()
			continue
		}
		if h.group == "" && a.Key == FieldCorrelationID {
			next.requestID = a.Value.String()
			continue
		}
		writeAttr(&pre, h.group, a)
	}
	next.preformatted = pre.String()
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// writeAttr appends " key=value", flattening groups into dotted keys.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(valueString(a.Value)))
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
