package status

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"taildrop/internal/config"
	"taildrop/internal/deps"
	"taildrop/internal/devices"
	"taildrop/internal/logging"
	"taildrop/internal/notifications"
	"taildrop/internal/runner"
)

const (
	DefaultBinary  = "/usr/bin/tailscale"
	DefaultTimeout = 5 * time.Second
	DefaultTTL     = 15 * time.Second
)

// Runner runs the bounded status query; satisfied by *runner.Runner.
type Runner interface {
	RunBounded(ctx context.Context, cmd runner.Command, timeout time.Duration) (runner.Result, error)
}

// Options configures a Cache.
type Options struct {
	Binary          string
	Timeout         time.Duration
	TTL             time.Duration
	IngressHostname string
	Logger          *slog.Logger
	// Now overrides the clock; tests only.
	Now func() time.Time
	// CheckBinary overrides the presence check; defaults to deps.Executable.
	CheckBinary func(path string) error
}

// OptionsFromConfig derives cache options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Binary:          cfg.Tailscale.Binary,
		Timeout:         cfg.StatusTimeout(),
		TTL:             cfg.CacheTTL(),
		IngressHostname: cfg.Tailscale.IngressHostname,
		Logger:          logger,
	}
}

// Health describes the cache's last refresh attempt.
type Health struct {
	Outcome    Outcome   `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	CapturedAt time.Time `json:"captured_at"`
	Devices    int       `json:"devices"`
	Warned     bool      `json:"warned"`
}

type warnState int

const (
	warnSilent warnState = iota
	warnWarned
)

// Cache is the TTL-gated store of tailnet devices. It is safe for concurrent
// use; callers that queue behind an in-flight query take its outcome, success
// or failure, instead of starting another one.
type Cache struct {
	run    Runner
	sink   notifications.Sink
	opts   Options
	logger *slog.Logger

	// attempts counts completed refresh attempts; written under mu.
	attempts atomic.Uint64

	mu        sync.Mutex
	snapshot  devices.Snapshot
	warn      warnState
	lastErr   error
	checkedAt time.Time
}

// New builds an empty Cache.
func New(run Runner, sink notifications.Sink, opts Options) *Cache {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CheckBinary == nil {
		opts.CheckBinary = deps.Executable
	}
	if sink == nil {
		sink = notifications.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		run:    run,
		sink:   sink,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "status"),
	}
}

// Get returns the current device snapshot, refreshing it first when it is
// older than the TTL. It never fails: on any error the previous snapshot,
// possibly empty, is returned unchanged.
func (c *Cache) Get(ctx context.Context) devices.Snapshot {
	if ctx == nil {
		ctx = context.Background()
	}
	seen := c.attempts.Load()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.freshLocked() {
		return c.snapshot
	}
	if c.attempts.Load() != seen {
		// An attempt finished while we waited for the lock.
		return c.snapshot
	}

	err := c.refreshLocked(ctx)
	c.lastErr = err
	c.checkedAt = c.opts.Now()
	c.attempts.Add(1)
	if err != nil {
		c.reportLocked(ctx, err)
	}
	return c.snapshot
}

// Invalidate marks the snapshot stale so the next Get queries again. The
// device list itself is kept as the stale fallback.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.CapturedAt = time.Time{}
}

// Refresh forces a query and returns the resulting snapshot.
func (c *Cache) Refresh(ctx context.Context) devices.Snapshot {
	c.Invalidate()
	return c.Get(ctx)
}

// Peek returns the snapshot without refreshing it.
func (c *Cache) Peek() devices.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Health reports the outcome of the last refresh attempt.
func (c *Cache) Health() Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := Health{
		Outcome:    OutcomeNone,
		CheckedAt:  c.checkedAt,
		CapturedAt: c.snapshot.CapturedAt,
		Devices:    len(c.snapshot.Devices),
		Warned:     c.warn == warnWarned,
	}
	if !c.checkedAt.IsZero() {
		h.Outcome = Classify(c.lastErr)
	}
	if c.lastErr != nil {
		h.Detail = c.lastErr.Error()
	}
	return h
}

func (c *Cache) freshLocked() bool {
	if c.snapshot.Empty() || c.snapshot.CapturedAt.IsZero() {
		return false
	}
	return c.opts.Now().Sub(c.snapshot.CapturedAt) < c.opts.TTL
}

func (c *Cache) refreshLocked(ctx context.Context) error {
	if err := c.opts.CheckBinary(c.opts.Binary); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBinaryMissing, c.opts.Binary, err)
	}

	cmd := runner.Command{Path: c.opts.Binary, Args: []string{"status", "--json"}}
	result, err := c.run.RunBounded(ctx, cmd, c.opts.Timeout)
	if err != nil {
		if errors.Is(err, ErrSpawn) && binaryVanished(err) {
			return fmt.Errorf("%w: %s: %w", ErrBinaryMissing, c.opts.Binary, err)
		}
		return err
	}
	if result.ExitCode != 0 {
		return &ExitError{Code: result.ExitCode, Stderr: strings.TrimSpace(result.Stderr)}
	}

	payload, err := devices.Decode([]byte(result.Stdout))
	if err != nil {
		return err
	}
	list := devices.Build(payload, devices.Options{IngressHostname: c.opts.IngressHostname})

	c.warn = warnSilent
	if len(list) == 0 {
		c.logger.Debug("status query returned no devices; keeping previous snapshot",
			logging.Int("previous_devices", len(c.snapshot.Devices)))
		return nil
	}
	c.snapshot = devices.Snapshot{Devices: list, CapturedAt: c.opts.Now()}
	c.logger.Debug("device snapshot refreshed",
		logging.Int("devices", len(list)),
		logging.Duration("query_duration", result.Duration))
	return nil
}

// binaryVanished reports a start failure caused by the binary disappearing
// between the presence check and exec.
func binaryVanished(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func (c *Cache) reportLocked(ctx context.Context, err error) {
	outcome := Classify(err)
	if outcome == OutcomeBinaryMissing {
		if c.warn == warnWarned {
			c.logger.Debug("tailscale still missing; warning suppressed", logging.Error(err))
			return
		}
		c.warn = warnWarned
	}

	logging.WarnWithContext(c.logger, "device status refresh failed", "status_refresh_failed",
		logging.String("outcome", string(outcome)),
		logging.Error(err),
		logging.String(logging.FieldImpact, "serving the previous device list"),
		logging.String(logging.FieldErrorHint, hintFor(outcome)),
	)
	if outcome == OutcomeCancelled {
		return
	}
	c.sink.Notify(ctx, c.notificationFor(outcome, err))
}

func (c *Cache) notificationFor(outcome Outcome, err error) notifications.Notification {
	switch outcome {
	case OutcomeBinaryMissing:
		return notifications.Notification{
			Title:   "Tailscale not found",
			Message: "Binary not found: " + c.opts.Binary,
			Icon:    notifications.IconError,
		}
	case OutcomeTimeout:
		return notifications.Notification{
			Title:   "Tailscale",
			Message: "Timed out fetching devices.",
			Icon:    notifications.IconWarning,
		}
	case OutcomeSpawnFailure:
		return notifications.Notification{
			Title:   "Tailscale Error",
			Message: "Unable to run tailscale: " + spawnDetail(err),
			Icon:    notifications.IconError,
		}
	case OutcomeMalformedResponse:
		return notifications.Notification{
			Title:   "Tailscale Error",
			Message: "Invalid JSON response: " + strings.TrimPrefix(err.Error(), ErrMalformedResponse.Error()+": "),
			Icon:    notifications.IconError,
		}
	default:
		return notifications.Notification{
			Title:   "Tailscale Error",
			Message: "Status error: " + exitDetail(err),
			Icon:    notifications.IconError,
		}
	}
}

func hintFor(outcome Outcome) string {
	switch outcome {
	case OutcomeBinaryMissing:
		return "install tailscale or set tailscale.binary"
	case OutcomeTimeout:
		return "check that tailscaled is running"
	case OutcomeNonZeroExit:
		return "run `tailscale status` to see the daemon's state"
	case OutcomeMalformedResponse:
		return "tailscale may be too old to support --json"
	default:
		return ""
	}
}

func spawnDetail(err error) string {
	var spawnErr *runner.SpawnError
	if errors.As(err, &spawnErr) && spawnErr.Err != nil {
		return spawnErr.Err.Error()
	}
	return err.Error()
}

func exitDetail(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Stderr != "" {
			return exitErr.Stderr
		}
		return "Unknown error"
	}
	return err.Error()
}
