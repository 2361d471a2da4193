package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"taildrop/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(
		newConfigInitCommand(),
		newConfigValidateCommand(ctx),
		newConfigShowCommand(ctx),
	)
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if err := writeSampleConfig(target, overwrite); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit tailscale.binary if tailscale is not installed at /usr/bin/tailscale.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// configTarget resolves --path, defaulting to the per-user config location.
func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func writeSampleConfig(target string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}
	return nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load and validate the configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			source := path
			if !exists {
				source = path + " (not found; using defaults)"
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range []string{
				renderStatusLine("Config", statusInfo, source, colorize),
				renderStatusLine("State dir", statusInfo, cfg.Paths.StateDir, colorize),
				renderStatusLine("Tailscale", statusInfo, cfg.Tailscale.Binary, colorize),
				renderStatusLine("Cache TTL", statusInfo, cfg.CacheTTL().String(), colorize),
			} {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
