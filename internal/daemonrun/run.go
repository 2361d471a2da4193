package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"taildrop/internal/config"
	"taildrop/internal/daemon"
	"taildrop/internal/ipc"
	"taildrop/internal/logging"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// SocketPath overrides the configured socket location.
	SocketPath string
	// DaemonOptions are forwarded to daemon.New; tests use them.
	DaemonOptions []daemon.Option
	// Ready, when set, is called once the IPC server accepts connections.
	Ready func()
}

// Run starts the taildrop daemon and blocks until SIGINT, SIGTERM or ctx ends.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", cfg.LogPath()},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	d, err := daemon.New(cfg, logger, opts.DaemonOptions...)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	logDependencySnapshot(logger, d)

	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = cfg.SocketPath()
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()
	if opts.Ready != nil {
		opts.Ready()
	}

	<-signalCtx.Done()
	logger.Info("taildrop daemon shutting down",
		logging.String(logging.FieldEventType, "daemon_shutdown"))
	return nil
}

func logDependencySnapshot(logger *slog.Logger, d *daemon.Daemon) {
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, dep := range d.Dependencies() {
		attrs = append(attrs,
			logging.Bool(dep.Name+"_available", dep.Available),
			logging.String(dep.Name+"_binary", dep.Command))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
