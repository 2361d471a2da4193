package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"taildrop/internal/config"
	"taildrop/internal/deps"
	"taildrop/internal/devices"
	"taildrop/internal/dispatch"
	"taildrop/internal/logging"
	"taildrop/internal/notifications"
	"taildrop/internal/runner"
	"taildrop/internal/status"
)

// Daemon owns the process-wide cache and dispatcher.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     *runner.Runner
	sink       notifications.Sink
	cache      *status.Cache
	dispatcher *dispatch.Dispatcher

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt atomic.Pointer[time.Time]
	cancel    context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	StartedAt    time.Time
	LockFilePath string
	SocketPath   string
	LogPath      string
	Cache        status.Health
	Dependencies []deps.Status
}

// Option customizes construction; used by tests to swap collaborators.
type Option func(*settings)

type settings struct {
	sink  notifications.Sink
	clock func() time.Time
	run   []runner.Option
}

// WithSink replaces the configured notification sinks.
func WithSink(sink notifications.Sink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.clock = now }
}

// WithRunnerOptions appends runner options after the configured supervisor.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(s *settings) { s.run = append(s.run, opts...) }
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	runOpts := []runner.Option{
		runner.WithSupervisor(cfg.Spawn.Supervisor, cfg.Spawn.SupervisorArgs...),
		runner.WithLogger(logger),
	}
	run := runner.New(append(runOpts, set.run...)...)

	sink := set.sink
	if sink == nil {
		sink = notifications.NewService(cfg, run, logger)
	}

	cacheOpts := status.OptionsFromConfig(cfg, logger)
	cacheOpts.Now = set.clock

	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		runner:     run,
		sink:       sink,
		cache:      status.New(run, sink, cacheOpts),
		dispatcher: dispatch.New(run, sink, dispatch.OptionsFromConfig(cfg, logger)),
		lockPath:   cfg.LockPath(),
		lock:       flock.New(cfg.LockPath()),
	}, nil
}

// Start acquires the daemon lock and warms the device cache in the background.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another taildrop daemon instance is already running")
	}

	warmCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	now := time.Now()
	d.startedAt.Store(&now)
	d.running.Store(true)
	d.logger.Info("taildrop daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath))

	go func() {
		snap := d.cache.Get(warmCtx)
		d.logger.Debug("device cache warmed", logging.Int("devices", len(snap.Devices)))
	}()
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_lock_release_failed"))
	}
	d.running.Store(false)
	d.logger.Info("taildrop daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close stops the daemon and waits for in-flight notification pushes.
func (d *Daemon) Close() error {
	d.Stop()
	notifications.Wait(d.sink)
	return nil
}

// Running reports whether Start succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Devices returns the cached device list, refreshing it past the TTL.
func (d *Daemon) Devices(ctx context.Context) devices.Snapshot {
	return d.cache.Get(ctx)
}

// Refresh forces a device query.
func (d *Daemon) Refresh(ctx context.Context) devices.Snapshot {
	return d.cache.Refresh(ctx)
}

// Invalidate marks the device list stale.
func (d *Daemon) Invalidate() {
	d.cache.Invalidate()
}

// Send dispatches the local files among paths to target and reports how many
// were handed to tailscale.
func (d *Daemon) Send(ctx context.Context, paths []string, target string) (int, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return 0, errors.New("target device is required")
	}
	return d.dispatcher.SendSelection(ctx, paths, target), nil
}

// Receive dispatches `tailscale file get` into dir, or the configured
// receive directory when dir is empty.
func (d *Daemon) Receive(ctx context.Context, dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = d.cfg.Receive.Dir
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("create receive directory: %w", err)
	}
	d.dispatcher.Receive(ctx, expanded)
	return expanded, nil
}

// TestNotification pushes a test message through every configured sink.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string) {
	if _, ok := d.sink.(notifications.Noop); ok {
		return false, "no notification sink configured"
	}
	d.sink.Notify(ctx, notifications.TestNotification())
	return true, "test notification sent"
}

// Status returns the current daemon status.
func (d *Daemon) Status(_ context.Context) Status {
	st := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.SocketPath(),
		LogPath:      d.cfg.LogPath(),
		Cache:        d.cache.Health(),
		Dependencies: d.Dependencies(),
	}
	if started := d.startedAt.Load(); started != nil && st.Running {
		st.StartedAt = *started
	}
	return st
}

// Dependencies reports availability of the external programs taildrop runs.
func (d *Daemon) Dependencies() []deps.Status {
	reqs := []deps.Requirement{
		{
			Name:        "tailscale",
			Command:     d.cfg.Tailscale.Binary,
			Description: "Queries peers and performs transfers",
		},
	}
	if d.cfg.Spawn.Supervisor != "" {
		reqs = append(reqs, deps.Requirement{
			Name:        "supervisor",
			Command:     d.cfg.Spawn.Supervisor,
			Description: "Detaches transfers from the caller; direct spawn is used without it",
			Optional:    true,
		})
	}
	if d.cfg.Notifications.Desktop {
		reqs = append(reqs, deps.Requirement{
			Name:        "notify-send",
			Command:     d.cfg.Notifications.NotifySend,
			Description: "Desktop notifications",
			Optional:    true,
		})
	}
	return deps.CheckBinaries(reqs)
}
