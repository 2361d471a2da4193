package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"taildrop/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "taildrop", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "taildrop")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Receive.Dir != filepath.Join(tempHome, "Downloads") {
		t.Fatalf("unexpected receive dir: %q", cfg.Receive.Dir)
	}
	if cfg.Tailscale.Binary != "/usr/bin/tailscale" {
		t.Fatalf("unexpected tailscale binary: %q", cfg.Tailscale.Binary)
	}
	if cfg.StatusTimeout() != 5*time.Second {
		t.Fatalf("expected 5s status timeout, got %s", cfg.StatusTimeout())
	}
	if cfg.CacheTTL() != 15*time.Second {
		t.Fatalf("expected 15s cache ttl, got %s", cfg.CacheTTL())
	}
	if cfg.Tailscale.IngressHostname != "funnel-ingress-node" {
		t.Fatalf("unexpected ingress hostname: %q", cfg.Tailscale.IngressHostname)
	}
	if cfg.Spawn.Supervisor != "systemd-run" {
		t.Fatalf("unexpected supervisor: %q", cfg.Spawn.Supervisor)
	}
	if strings.Join(cfg.Spawn.SupervisorArgs, " ") != "--user --no-block" {
		t.Fatalf("unexpected supervisor args: %v", cfg.Spawn.SupervisorArgs)
	}
	if !cfg.Notifications.Desktop {
		t.Fatal("expected desktop notifications enabled by default")
	}
	if cfg.SocketPath() != filepath.Join(wantState, "taildrop.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "taildrop.toml")

	type payload struct {
		Tailscale struct {
			Binary   string `toml:"binary"`
			CacheTTL int    `toml:"cache_ttl"`
		} `toml:"tailscale"`
		Spawn struct {
			Supervisor     string   `toml:"supervisor"`
			SupervisorArgs []string `toml:"supervisor_args"`
		} `toml:"spawn"`
		Receive struct {
			Dir      string `toml:"dir"`
			Conflict string `toml:"conflict"`
		} `toml:"receive"`
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.Tailscale.Binary = "/opt/tailscale/bin/tailscale"
	custom.Tailscale.CacheTTL = 30
	custom.Spawn.Supervisor = ""
	custom.Spawn.SupervisorArgs = []string{" --user ", ""}
	custom.Receive.Dir = filepath.Join(tempDir, "inbox")
	custom.Receive.Conflict = " Rename "
	custom.Paths.StateDir = filepath.Join(tempDir, "state")

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Tailscale.Binary != "/opt/tailscale/bin/tailscale" {
		t.Fatalf("expected binary override, got %q", cfg.Tailscale.Binary)
	}
	if cfg.CacheTTL() != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %s", cfg.CacheTTL())
	}
	if cfg.Tailscale.StatusTimeout != 5 {
		t.Fatalf("expected default status timeout to survive partial file, got %d", cfg.Tailscale.StatusTimeout)
	}
	if cfg.Spawn.Supervisor != "" {
		t.Fatalf("expected supervisor disabled, got %q", cfg.Spawn.Supervisor)
	}
	if len(cfg.Spawn.SupervisorArgs) != 1 || cfg.Spawn.SupervisorArgs[0] != "--user" {
		t.Fatalf("expected trimmed supervisor args, got %v", cfg.Spawn.SupervisorArgs)
	}
	if cfg.Receive.Conflict != "rename" {
		t.Fatalf("expected normalized conflict mode, got %q", cfg.Receive.Conflict)
	}
	if cfg.LockPath() != filepath.Join(tempDir, "state", "taildrop.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tailscale]") {
		t.Fatalf("sample missing tailscale section:\n%s", data)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Tailscale.CacheTTL != 15 {
		t.Fatalf("unexpected sample cache ttl: %d", cfg.Tailscale.CacheTTL)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "relative binary",
			mutate: func(c *config.Config) { c.Tailscale.Binary = "tailscale" },
			want:   "tailscale.binary must be an absolute path",
		},
		{
			name:   "zero ttl",
			mutate: func(c *config.Config) { c.Tailscale.CacheTTL = 0 },
			want:   "tailscale.cache_ttl must be positive",
		},
		{
			name:   "negative status timeout",
			mutate: func(c *config.Config) { c.Tailscale.StatusTimeout = -1 },
			want:   "tailscale.status_timeout must be positive",
		},
		{
			name:   "unknown conflict",
			mutate: func(c *config.Config) { c.Receive.Conflict = "merge" },
			want:   "receive.conflict",
		},
		{
			name:   "unknown level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
