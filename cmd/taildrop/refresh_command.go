package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taildrop/internal/access"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var lazy bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the device list",
		Long: `Refresh queries tailscale now. With --lazy the cached list is only marked
stale and the next lookup queries instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a access.Access) error {
				out := cmd.OutOrStdout()
				if lazy {
					if err := a.Invalidate(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "Device list marked stale")
					return nil
				}
				snap, err := a.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d devices (%d online)\n", len(snap.Devices), len(snap.Online()))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&lazy, "lazy", false, "Only invalidate the cache")
	return cmd
}
