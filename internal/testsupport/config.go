package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"taildrop/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Desktop notifications are off so tests never reach a real notify-send.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Tailscale.Binary = filepath.Join(base, "bin", "tailscale")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Receive.Dir = filepath.Join(base, "inbox")
	cfgVal.Spawn.Supervisor = ""
	cfgVal.Spawn.SupervisorArgs = nil
	cfgVal.Notifications.Desktop = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTailscaleScript installs body as the tailscale binary for the config.
func WithTailscaleScript(body string) ConfigOption {
	return func(b *configBuilder) {
		WriteScript(b.t, b.cfg.Tailscale.Binary, body)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, notify-send and systemd-run are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"notify-send", "systemd-run"}
		}
		binDir := filepath.Join(b.baseDir, "path")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the temp root backing cfg's paths.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
