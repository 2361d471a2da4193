package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taildrop/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReceiveDirMissingButCreatable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckReceiveDir(dir)
	if !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if !strings.Contains(result.Detail, "created on first receive") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckNtfy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	if result := CheckNtfy(context.Background(), srv.URL+"/taildrop", time.Second); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if result := CheckNtfy(context.Background(), "not a url", time.Second); result.Passed {
		t.Fatal("expected invalid url to fail")
	}
}

func TestCheckNtfyUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/taildrop", time.Second)
	if result.Passed || !strings.Contains(result.Detail, "503") {
		t.Fatalf("expected 503 failure, got %+v", result)
	}
}

func TestRunAllSkipsNtfyWhenUnset(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Receive.Dir = t.TempDir()
	cfg.Notifications.NtfyTopic = ""

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("unexpected failure %+v", r)
		}
	}
}
