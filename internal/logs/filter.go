package logs

import (
	"encoding/json"
	"log/slog"
	"strings"

	"taildrop/internal/logging"
)

// Filter selects log lines. Zero-valued fields match everything.
type Filter struct {
	Component     string
	CorrelationID string
	// MinLevel drops JSON lines below this level; console lines always pass.
	MinLevel string
}

// Empty reports whether the filter matches every line.
func (f Filter) Empty() bool {
	return f.Component == "" && f.CorrelationID == "" && f.MinLevel == ""
}

// Match reports whether line passes the filter. JSON lines are matched on
// their fields; other lines fall back to a substring match.
func (f Filter) Match(line string) bool {
	if f.Empty() {
		return true
	}
	var record map[string]any
	if strings.HasPrefix(strings.TrimSpace(line), "{") && json.Unmarshal([]byte(line), &record) == nil {
		return f.matchRecord(record)
	}
	if f.Component != "" && !strings.Contains(line, f.Component) {
		return false
	}
	if f.CorrelationID != "" && !strings.Contains(line, f.CorrelationID) {
		return false
	}
	return true
}

func (f Filter) matchRecord(record map[string]any) bool {
	if f.Component != "" && !strings.EqualFold(stringField(record, logging.FieldComponent), f.Component) {
		return false
	}
	if f.CorrelationID != "" && stringField(record, logging.FieldCorrelationID) != f.CorrelationID {
		return false
	}
	if f.MinLevel != "" {
		var want, got slog.Level
		if want.UnmarshalText([]byte(f.MinLevel)) != nil {
			return true
		}
		if got.UnmarshalText([]byte(stringField(record, slog.LevelKey))) != nil {
			return true
		}
		return got >= want
	}
	return true
}

func stringField(record map[string]any, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}
