package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taildrop/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level string
	// Format is "console" (default) or "json".
	Format string
	// OutputPaths lists "stdout", "stderr" or file paths; files are appended to.
	OutputPaths []string
	// Development adds source locations at every level.
	Development bool
}

// New builds a logger. Source locations are included at debug level or in
// development mode.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	w, err := openOutputs(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	source := opts.Development || level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(w, level, source)), nil
	case "json":
		return slog.New(newJSONHandler(w, level, source)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a CLI logger writing to stderr. The daemon adds its
// log file on top through Options.OutputPaths.
func NewFromConfig(cfg *config.Config, extraOutputs ...string) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info"})
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: append([]string{"stderr"}, extraOutputs...),
	})
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// openOutputs resolves output names to a single writer, skipping duplicates.
func openOutputs(paths []string) (io.Writer, error) {
	seen := make(map[string]bool, len(paths))
	var writers []io.Writer
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		switch p {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			f, err := openLogFile(p)
			if err != nil {
				return nil, err
			}
			writers = append(writers, f)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

// newJSONHandler emits compact records with "ts" in UTC, lowercase levels and
// file:line sources.
func newJSONHandler(w io.Writer, level slog.Leveler, source bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: source,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				return slog.String(slog.LevelKey, strings.ToLower(a.Value.String()))
			case slog.SourceKey:
				if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})
}
