package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taildrop/internal/config"
	"taildrop/internal/daemon"
	"taildrop/internal/ipc"
	"taildrop/internal/logging"
	"taildrop/internal/notifications"
	"taildrop/internal/testsupport"
)

const testPeers = `{"Self": {"UserID": 1}, "Peer": {
  "a": {"ID": "a", "HostName": "laptop", "DNSName": "laptop.tail.ts.net.", "OS": "linux", "Online": true, "UserID": 1, "TailscaleIPs": ["100.64.0.2"]},
  "b": {"ID": "b", "HostName": "Phone", "OS": "android", "Online": false, "UserID": 1}
}}`

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	server     *ipc.Server
	sink       *notifications.Recorder
	socketPath string
	configPath string
	baseDir    string
	cancel     context.CancelFunc
}

// setupConfig writes a config file pointing at a stub tailscale and returns
// it without starting a daemon.
func setupConfig(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithTailscaleScript(
		"case \"$1\" in status) cat <<'JSON'\n"+testPeers+"\nJSON\n;; esac\n"))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "taildrop", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		socketPath: cfg.SocketPath(),
		configPath: configPath,
		baseDir:    base,
	}
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	env := setupConfig(t)
	if err := env.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	env.sink = &notifications.Recorder{}

	d, err := daemon.New(env.cfg, logging.NewNop(), daemon.WithSink(env.sink))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	srv, err := ipc.NewServer(ctx, env.socketPath, d, logging.NewNop())
	if err != nil {
		cancel()
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env.daemon = d
	env.server = srv
	env.cancel = cancel

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWith(t, nil, args, socket, configPath)
}

// runCLIWith runs the CLI with daemon options applied to the in-process
// fallback.
func runCLIWith(t *testing.T, opts []daemon.Option, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd, cmdCtx := newRootCommandWithContext()
	cmdCtx.daemonOptions = opts
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[tailscale]
binary = %q

[spawn]
supervisor = ""

[notifications]
desktop = false

[receive]
dir = %q

[paths]
state_dir = %q

[logging]
level = "error"
`, cfg.Tailscale.Binary, cfg.Receive.Dir, cfg.Paths.StateDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
