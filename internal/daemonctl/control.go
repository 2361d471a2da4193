package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"taildrop/internal/ipc"
	"taildrop/internal/runner"
)

// ErrDaemonNotRunning indicates daemon IPC is unavailable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// Spawner launches detached commands; satisfied by *runner.Runner.
type Spawner interface {
	SpawnDetached(cmd runner.Command)
}

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	SocketPath string
	ConfigPath string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	PID        int
	ForcedKill bool
}

// LaunchCommand builds the `taildrop serve` invocation for executablePath.
func LaunchCommand(executablePath string, opts LaunchOptions) (runner.Command, error) {
	if strings.TrimSpace(executablePath) == "" {
		return runner.Command{}, fmt.Errorf("resolve executable: executable path is empty")
	}
	args := []string{"serve"}
	if socket := strings.TrimSpace(opts.SocketPath); socket != "" {
		args = append(args, "--socket", socket)
	}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	return runner.Command{Path: executablePath, Args: args}, nil
}

// Launch starts a detached taildrop daemon through spawner, so it runs under
// the session supervisor when one is available.
func Launch(spawner Spawner, executablePath string, opts LaunchOptions) error {
	cmd, err := LaunchCommand(executablePath, opts)
	if err != nil {
		return err
	}
	spawner.SpawnDetached(cmd)
	return nil
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon unless it already answers on socketPath.
func EnsureStarted(spawner Spawner, socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	state := StartStateAlreadyRunning
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if launchErr := Launch(spawner, executablePath, opts); launchErr != nil {
			return StartResult{}, launchErr
		}
		client, err = WaitForClient(socketPath, waitTimeout)
		if err != nil {
			return StartResult{}, err
		}
		state = StartStateStarted
	}
	defer client.Close()

	resp, err := client.Status()
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{State: state, PID: resp.PID}, nil
}

// WaitForShutdown waits for daemon IPC to disappear or report not-running.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			return nil
		}
		st, statusErr := client.Status()
		_ = client.Close()
		if statusErr == nil && !st.Running {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("daemon did not stop: timeout waiting for shutdown")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// StopAndTerminate sends SIGTERM to the daemon answering on socketPath and
// escalates to SIGKILL when it is still alive after gracePeriod.
func StopAndTerminate(socketPath string, gracePeriod time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		return StopResult{}, ErrDaemonNotRunning
	}
	st, err := client.Status()
	_ = client.Close()
	if err != nil {
		return StopResult{}, err
	}
	pid := st.PID
	if pid <= 0 {
		return StopResult{}, fmt.Errorf("daemon reported invalid pid %d", pid)
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}

	result := StopResult{PID: pid}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			_ = os.Remove(socketPath)
			return result, nil
		}
		return result, fmt.Errorf("signal daemon process %d: %w", pid, err)
	}
	if err := WaitForShutdown(socketPath, gracePeriod); err == nil {
		return result, nil
	}

	if err := unix.Kill(pid, unix.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return result, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	_ = os.Remove(socketPath)
	result.ForcedKill = true
	return result, nil
}
