package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"taildrop/internal/config"
	"taildrop/internal/logging"
	"taildrop/internal/notifications"
	"taildrop/internal/runner"
)

// Spawner launches detached commands; satisfied by *runner.Runner.
type Spawner interface {
	SpawnDetached(cmd runner.Command)
}

// Options configures a Dispatcher.
type Options struct {
	Binary   string
	Conflict string
	Logger   *slog.Logger
	// NewID overrides correlation ID generation; tests only.
	NewID func() string
}

// OptionsFromConfig derives dispatcher options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Binary:   cfg.Tailscale.Binary,
		Conflict: cfg.Receive.Conflict,
		Logger:   logger,
	}
}

// Dispatcher issues fire-and-forget transfer commands.
type Dispatcher struct {
	spawner Spawner
	sink    notifications.Sink
	opts    Options
	logger  *slog.Logger
}

// New constructs a Dispatcher.
func New(spawner Spawner, sink notifications.Sink, opts Options) *Dispatcher {
	if opts.Binary == "" {
		opts.Binary = "/usr/bin/tailscale"
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if sink == nil {
		sink = notifications.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		spawner: spawner,
		sink:    sink,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Send copies paths to target. An empty path list does nothing at all.
func (d *Dispatcher) Send(ctx context.Context, paths []string, target string) {
	if len(paths) == 0 {
		return
	}
	ctx, logger := d.begin(ctx)

	d.sink.Notify(ctx, notifications.Notification{
		Title:   "Tailscale",
		Message: sendMessage(paths, target),
		Icon:    notifications.IconTransmit,
	})

	cmd := SendCommand(d.opts.Binary, paths, target)
	logger.Info("dispatching file send",
		logging.String(logging.FieldEventType, "send_dispatched"),
		logging.String("target", target),
		logging.Int("files", len(paths)))
	d.spawner.SpawnDetached(cmd)
}

// SendSelection drops paths that are not local files and sends the rest. When
// nothing survives the user is told so instead.
func (d *Dispatcher) SendSelection(ctx context.Context, paths []string, target string) int {
	local := FilterLocal(paths)
	if len(local) == 0 {
		d.sink.Notify(ctx, notifications.Notification{
			Title:   "Tailscale",
			Message: "No local file selected.",
			Icon:    notifications.IconWarning,
		})
		return 0
	}
	d.Send(ctx, local, target)
	return len(local)
}

// Receive moves files waiting in the tailscale inbox into dir.
func (d *Dispatcher) Receive(ctx context.Context, dir string) {
	ctx, logger := d.begin(ctx)

	d.sink.Notify(ctx, notifications.Notification{
		Title:   "Tailscale",
		Message: fmt.Sprintf("Receiving files into %s…", dir),
		Icon:    notifications.IconReceive,
	})

	logger.Info("dispatching file receive",
		logging.String(logging.FieldEventType, "receive_dispatched"),
		logging.String("dir", dir))
	d.spawner.SpawnDetached(ReceiveCommand(d.opts.Binary, dir, d.opts.Conflict))
}

func (d *Dispatcher) begin(ctx context.Context) (context.Context, *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := logging.CorrelationID(ctx); !ok {
		ctx = logging.WithCorrelationID(ctx, d.opts.NewID())
	}
	return ctx, logging.WithContext(ctx, d.logger)
}

// SendCommand builds `tailscale file cp <paths…> <target>:`.
func SendCommand(binary string, paths []string, target string) runner.Command {
	args := make([]string, 0, len(paths)+3)
	args = append(args, "file", "cp")
	args = append(args, paths...)
	args = append(args, strings.TrimSuffix(target, ":")+":")
	return runner.Command{Path: binary, Args: args}
}

// ReceiveCommand builds `tailscale file get [--conflict=mode] <dir>`.
func ReceiveCommand(binary, dir, conflict string) runner.Command {
	args := []string{"file", "get"}
	if conflict != "" {
		args = append(args, "--conflict="+conflict)
	}
	args = append(args, dir)
	return runner.Command{Path: binary, Args: args}
}

func sendMessage(paths []string, target string) string {
	if len(paths) == 1 {
		return fmt.Sprintf("Sending “%s” to %s…", filepath.Base(paths[0]), target)
	}
	return fmt.Sprintf("Sending %d files to %s…", len(paths), target)
}

// FilterLocal keeps entries that name existing local files, returned as
// absolute paths. file:// URIs are accepted; other schemes are dropped.
func FilterLocal(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "://") {
			u, err := url.Parse(p)
			if err != nil || u.Scheme != "file" || u.Path == "" {
				continue
			}
			p = u.Path
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		out = append(out, abs)
	}
	return out
}
