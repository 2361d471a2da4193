package testsupport

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript installs an executable /bin/sh script at path. The body is
// written to a sibling temp file and renamed into place, so replacing a script
// between calls never races an exec of the previous version.
func WriteScript(t testing.TB, path, body string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".script-*")
	if err != nil {
		t.Fatalf("create script for %s: %v", path, err)
	}
	if _, err := tmp.WriteString("#!/bin/sh\n" + body); err != nil {
		tmp.Close()
		t.Fatalf("write script %s: %v", path, err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		t.Fatalf("chmod script %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatalf("close script %s: %v", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		t.Fatalf("install script %s: %v", path, err)
	}
	return path
}

// CountLines returns the number of lines in path, or zero when it does not exist.
func CountLines(t testing.TB, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	return count
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
