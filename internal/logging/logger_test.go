package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taildrop/internal/config"
	"taildrop/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Debug("debug message")
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "status")
	component.Warn("refresh failed",
		logging.String("binary", "/usr/bin/tailscale"),
		logging.Error(errors.New("exit status 1")),
		logging.Int("devices", 3),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{
		"WARN status: refresh failed",
		"binary=/usr/bin/tailscale",
		`error="exit status 1"`,
		"devices=3",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", line)
	}
}

func TestConsoleLoggerPrefixesCorrelationID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-id.log")
	logger, err := logging.New(logging.Options{Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithCorrelationID(context.Background(), "req-7")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "dispatch")).
		WithGroup("transfer").Info("dispatching", logging.Int("files", 2))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO dispatch[req-7]: dispatching", "transfer.files=2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithCorrelationID(context.Background(), "req-1")
	logging.WithContext(ctx, logger).Info("dispatched")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log line: %v (%q)", err, content)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry[logging.FieldCorrelationID] != "req-1" {
		t.Fatalf("expected correlation id, got %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "binary missing", "tailscale_missing",
		logging.String(logging.FieldErrorHint, "install tailscale"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if entry[logging.FieldEventType] != "tailscale_missing" {
		t.Fatalf("unexpected event type: %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "install tailscale" {
		t.Fatalf("explicit hint should win, got %v", entry[logging.FieldErrorHint])
	}
	if entry[logging.FieldImpact] == nil {
		t.Fatal("expected default impact field")
	}
}
