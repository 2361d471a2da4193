package main

import (
	"github.com/spf13/cobra"

	"taildrop/internal/daemonrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the taildrop daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:      logLevel,
				Development:   development,
				SocketPath:    ctx.socketPath(),
				DaemonOptions: ctx.daemonOptions,
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&development, "development", false, "Include source locations in logs")
	return cmd
}
