package daemonctl_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"taildrop/internal/daemonctl"
	"taildrop/internal/runner"
)

type recordingSpawner struct {
	commands []runner.Command
}

func (r *recordingSpawner) SpawnDetached(cmd runner.Command) {
	r.commands = append(r.commands, cmd)
}

func TestLaunchCommand(t *testing.T) {
	cmd, err := daemonctl.LaunchCommand("/usr/local/bin/taildrop", daemonctl.LaunchOptions{
		SocketPath: "/run/user/1000/taildrop.sock",
		ConfigPath: "/home/u/.config/taildrop/config.toml",
	})
	if err != nil {
		t.Fatalf("LaunchCommand: %v", err)
	}
	want := []string{"serve", "--socket", "/run/user/1000/taildrop.sock", "--config", "/home/u/.config/taildrop/config.toml"}
	if cmd.Path != "/usr/local/bin/taildrop" || !reflect.DeepEqual(cmd.Args, want) {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	if _, err := daemonctl.LaunchCommand("  ", daemonctl.LaunchOptions{}); err == nil {
		t.Fatal("expected error for empty executable")
	}
}

func TestLaunchUsesSpawner(t *testing.T) {
	spawner := &recordingSpawner{}
	if err := daemonctl.Launch(spawner, "/bin/taildrop", daemonctl.LaunchOptions{}); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(spawner.commands) != 1 || !reflect.DeepEqual(spawner.commands[0].Args, []string{"serve"}) {
		t.Fatalf("unexpected spawn: %+v", spawner.commands)
	}
}

func TestStopWithoutDaemon(t *testing.T) {
	_, err := daemonctl.StopAndTerminate(filepath.Join(t.TempDir(), "none.sock"), 0)
	if !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
	if err := daemonctl.WaitForShutdown(filepath.Join(t.TempDir(), "none.sock"), 0); err != nil {
		t.Fatalf("expected immediate shutdown confirmation, got %v", err)
	}
}
