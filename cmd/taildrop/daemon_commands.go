package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taildrop/internal/config"
	"taildrop/internal/daemonctl"
	"taildrop/internal/ipc"
	"taildrop/internal/logging"
	"taildrop/internal/runner"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the taildrop daemon in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startDaemon(cmd, ctx)
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the taildrop daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := stopDaemon(cmd, ctx)
			return err
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the taildrop daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := stopDaemon(cmd, ctx); err != nil {
				return err
			}
			return startDaemon(cmd, ctx)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			client, err := ipc.Dial(ctx.socketPath())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Daemon", statusWarn, "Not running", colorize))
				return nil
			}
			defer client.Close()
			resp, err := client.Status()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", resp.PID), colorize))
			if !resp.StartedAt.IsZero() {
				uptime := time.Since(resp.StartedAt).Truncate(time.Second)
				fmt.Fprintln(out, renderStatusLine("Uptime", statusInfo, uptime.String(), colorize))
			}
			fmt.Fprintln(out, cacheLine(resp.Cache, colorize))
			fmt.Fprintln(out, renderStatusLine("Socket", statusInfo, resp.SocketPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Log", statusInfo, resp.LogPath, colorize))
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func startDaemon(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	exe, err := daemonExecutable()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	spawner := runner.New(
		runner.WithSupervisor(cfg.Spawn.Supervisor, cfg.Spawn.SupervisorArgs...),
		runner.WithLogger(logger),
	)

	launch, err := daemonLaunchOptions(ctx)
	if err != nil {
		return err
	}
	result, err := daemonctl.EnsureStarted(spawner, ctx.socketPath(), exe, launch, 10*time.Second)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch result.State {
	case daemonctl.StartStateStarted:
		fmt.Fprintf(out, "Daemon started (pid %d)\n", result.PID)
	case daemonctl.StartStateAlreadyRunning:
		fmt.Fprintf(out, "Daemon already running (pid %d)\n", result.PID)
	}
	return nil
}

func stopDaemon(cmd *cobra.Command, ctx *commandContext) (bool, error) {
	out := cmd.OutOrStdout()
	result, err := daemonctl.StopAndTerminate(ctx.socketPath(), 5*time.Second)
	if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		fmt.Fprintln(out, "Daemon is not running")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if result.ForcedKill {
		fmt.Fprintf(out, "Daemon did not exit in time; killed pid %d\n", result.PID)
	}
	fmt.Fprintln(out, "Daemon stopped")
	return true, nil
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

// daemonLaunchOptions carries --socket and --config into the spawned daemon.
// Both are made absolute because the supervisor starts it in another
// working directory.
func daemonLaunchOptions(ctx *commandContext) (daemonctl.LaunchOptions, error) {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			abs, err := config.ExpandPath(socket)
			if err != nil {
				return opts, fmt.Errorf("resolve socket path: %w", err)
			}
			opts.SocketPath = abs
		}
	}
	if path := ctx.configPath(); path != "" {
		abs, err := config.ExpandPath(path)
		if err != nil {
			return opts, fmt.Errorf("resolve config path: %w", err)
		}
		opts.ConfigPath = abs
	}
	return opts, nil
}
