package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tailscale contains settings for the tailscale CLI used for status queries and transfers.
type Tailscale struct {
	Binary          string `toml:"binary"`
	StatusTimeout   int    `toml:"status_timeout"`
	CacheTTL        int    `toml:"cache_ttl"`
	IngressHostname string `toml:"ingress_hostname"`
}

// Spawn contains the session supervisor used to launch detached commands.
type Spawn struct {
	Supervisor     string   `toml:"supervisor"`
	SupervisorArgs []string `toml:"supervisor_args"`
}

// Notifications contains desktop and ntfy notification settings.
type Notifications struct {
	Desktop        bool   `toml:"desktop"`
	NotifySend     string `toml:"notify_send"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Receive contains defaults for `tailscale file get`.
type Receive struct {
	Dir      string `toml:"dir"`
	Conflict string `toml:"conflict"`
}

// Paths contains runtime directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for taildrop.
//
// Configuration sections by subsystem:
//   - Tailscale: CLI binary, status query timeout, device cache TTL
//   - Spawn: session supervisor for detached transfers
//   - Notifications: notify-send and optional ntfy push
//   - Receive: destination and conflict policy for incoming files
//   - Paths: daemon socket, lock and log location
//   - Logging: log format and level
type Config struct {
	Tailscale     Tailscale     `toml:"tailscale"`
	Spawn         Spawn         `toml:"spawn"`
	Notifications Notifications `toml:"notifications"`
	Receive       Receive       `toml:"receive"`
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("taildrop.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used by the daemon.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// SocketPath returns the daemon IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "taildrop.sock")
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "taildrop.lock")
}

// LogPath returns the daemon log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "taildrop.log")
}

// StatusTimeout returns the bound applied to `tailscale status`.
func (c *Config) StatusTimeout() time.Duration {
	return time.Duration(c.Tailscale.StatusTimeout) * time.Second
}

// CacheTTL returns how long a populated device list is served without refreshing.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Tailscale.CacheTTL) * time.Second
}

// NotifyTimeout returns the HTTP timeout for ntfy delivery.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
