package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taildrop/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines         int
		follow        bool
		component     string
		correlationID string
		level         string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		Long: `Logs prints the tail of the daemon log file. Filters apply to JSON logs
(logging.format = "json"); console lines are matched by substring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			filter := logs.Filter{Component: component, CorrelationID: correlationID, MinLevel: level}

			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines, Filter: filter})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, result.Offset, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&component, "component", "", "Only show lines from this component")
	cmd.Flags().StringVar(&correlationID, "correlation-id", "", "Only show lines for this request")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug, info, warn, error)")
	return cmd
}
