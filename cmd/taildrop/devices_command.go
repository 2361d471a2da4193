package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taildrop/internal/access"
	"taildrop/internal/devices"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		onlineOnly bool
		labels     bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"ls"},
		Short:   "List tailnet devices you can send to",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a access.Access) error {
				get := a.Devices
				if refresh {
					get = a.Refresh
				}
				snap, err := get(cmd.Context())
				if err != nil {
					return err
				}
				list := snap.Devices
				if onlineOnly {
					list = snap.Online()
				}

				out := cmd.OutOrStdout()
				switch {
				case jsonOutput:
					return writeJSON(cmd, devices.Snapshot{Devices: nonNil(list), CapturedAt: snap.CapturedAt})
				case labels:
					for _, dev := range list {
						fmt.Fprintln(out, dev.Label())
					}
					return nil
				case len(list) == 0:
					fmt.Fprintln(out, "No devices found")
					return nil
				default:
					fmt.Fprintln(out, renderDeviceTable(list, shouldColorize(out)))
					return nil
				}
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&onlineOnly, "online", false, "Only list online devices")
	cmd.Flags().BoolVar(&labels, "labels", false, "Print one menu label per line")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Query tailscale even if the cache is fresh")
	return cmd
}

func nonNil(list []devices.Device) []devices.Device {
	if list == nil {
		return []devices.Device{}
	}
	return list
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
