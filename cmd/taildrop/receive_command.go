package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taildrop/internal/access"
)

func newReceiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "receive [dir]",
		Short: "Move files waiting in the tailscale inbox into a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return ctx.withSession(func(a access.Access) error {
				resolved, err := a.Receive(cmd.Context(), dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Receiving into %s\n", resolved)
				return nil
			})
		},
	}
}
