package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"taildrop/internal/logging"
)

// pipeGrace bounds how long RunBounded keeps reading output after the
// command's process group has been killed or has exited.
const pipeGrace = 250 * time.Millisecond

// Command is an executable plus its ordered arguments.
type Command struct {
	Path string
	Args []string
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Result captures a completed bounded command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner launches external commands. The zero value is not usable; call New.
type Runner struct {
	supervisor     string
	supervisorArgs []string
	logger         *slog.Logger
	lookPath       func(string) (string, error)
	onExit         func(Command, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithSupervisor sets the program detached commands are launched under, e.g.
// "systemd-run" with "--user", "--no-block". An empty name disables it.
func WithSupervisor(name string, args ...string) Option {
	return func(r *Runner) {
		r.supervisor = strings.TrimSpace(name)
		r.supervisorArgs = append([]string(nil), args...)
	}
}

// WithLogger sets the logger used for detached-spawn diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExitHook registers a callback invoked from the reaper goroutine when a
// detached process exits. Intended for tests; callers never see it.
func WithExitHook(fn func(Command, error)) Option {
	return func(r *Runner) {
		r.onExit = fn
	}
}

// New constructs a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger:   logging.NewNop(),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "runner")
	return r
}

// RunBounded runs cmd synchronously and captures its output. A non-zero exit is
// reported through Result.ExitCode, not as an error. Errors are ErrTimeout when
// the deadline passes, a *SpawnError when the program cannot start, or the
// context error when ctx is cancelled.
func (r *Runner) RunBounded(ctx context.Context, cmd Command, timeout time.Duration) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(runCtx, cmd.Path, cmd.Args...) //nolint:gosec
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return unix.Kill(-c.Process.Pid, unix.SIGKILL)
	}
	c.WaitDelay = pipeGrace

	started := time.Now()
	err := c.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	if err != nil && runCtx.Err() != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return result, fmt.Errorf("%s: %w after %s", cmd.Path, ErrTimeout, timeout)
		}
		return result, fmt.Errorf("%s: %w", cmd.Path, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.Is(err, exec.ErrWaitDelay):
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, &SpawnError{Command: cmd.Path, Err: err}
	}
	return result, nil
}

// SpawnDetached launches cmd without waiting for it. The supervisor is tried
// first; only when it is not installed does the command start directly in a
// new session. Failures are logged and otherwise dropped: there is no result.
func (r *Runner) SpawnDetached(cmd Command) {
	if r.supervisor != "" {
		supervisor, err := r.lookPath(r.supervisor)
		if err == nil {
			args := make([]string, 0, len(r.supervisorArgs)+len(cmd.Args)+1)
			args = append(args, r.supervisorArgs...)
			args = append(args, cmd.Path)
			args = append(args, cmd.Args...)
			wrapped := Command{Path: supervisor, Args: args}
			err = r.start(wrapped)
			if err == nil {
				return
			}
			if !errors.Is(err, exec.ErrNotFound) && !errors.Is(err, syscall.ENOENT) {
				r.logger.Warn("supervised spawn failed",
					logging.String("command", wrapped.String()),
					logging.Error(err),
					logging.String(logging.FieldEventType, "spawn_supervised_failed"))
				return
			}
		}
		r.logger.Debug("supervisor unavailable; spawning directly",
			logging.String("supervisor", r.supervisor),
			logging.Error(err))
	}

	if err := r.start(cmd); err != nil {
		r.logger.Warn("detached spawn failed",
			logging.String("command", cmd.String()),
			logging.Error(err),
			logging.String(logging.FieldEventType, "spawn_failed"),
			logging.String(logging.FieldImpact, "the requested transfer did not start"))
	}
}

// start forks cmd in its own session with stdio on /dev/null and reaps it from
// a goroutine so abandoned children never linger as zombies.
func (r *Runner) start(cmd Command) error {
	c := exec.Command(cmd.Path, cmd.Args...) //nolint:gosec
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := c.Start(); err != nil {
		return &SpawnError{Command: cmd.Path, Err: err}
	}
	r.logger.Debug("detached process started",
		logging.String("command", cmd.String()),
		logging.Int("pid", c.Process.Pid))
	go func() {
		err := c.Wait()
		if err != nil {
			r.logger.Debug("detached process exited",
				logging.String("command", cmd.Path),
				logging.Error(err))
		}
		if r.onExit != nil {
			r.onExit(cmd, err)
		}
	}()
	return nil
}
