// Package logging assembles structured slog loggers and formatting helpers used
// across taildrop.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so dispatch code can tag log
// lines with a correlation ID. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
