package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taildrop/internal/access"
	"taildrop/internal/devices"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "send <device> <file>...",
		Short: "Send files to a device and return immediately",
		Long: `Send hands the files to "tailscale file cp" in the background and returns
without waiting for the transfer. Paths that are not local files (including
non-file URIs) are skipped; when none remain, a notification says so.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			paths, err := absolutePaths(args[1:])
			if err != nil {
				return err
			}
			return ctx.withSession(func(a access.Access) error {
				if !force {
					snap, err := a.Devices(cmd.Context())
					if err != nil {
						return err
					}
					resolved, err := resolveTarget(snap, target)
					if err != nil {
						return err
					}
					target = resolved
				}

				sent, err := a.Send(cmd.Context(), paths, target)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if sent == 0 {
					fmt.Fprintln(out, "No local file selected")
					return nil
				}
				fmt.Fprintf(out, "Dispatched %d file(s) to %s\n", sent, target)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Send even if the device is not in the device list")
	return cmd
}

// resolveTarget maps a user-supplied device to its canonical name, allowing
// prefixes and fuzzy matches. An empty snapshot means the list is unknown, so
// the name is passed through.
func resolveTarget(snap devices.Snapshot, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("device name is required")
	}
	if snap.Empty() {
		return target, nil
	}
	dev, err := snap.Match(target)
	if errors.Is(err, devices.ErrNoMatch) {
		return "", fmt.Errorf("unknown device %q (run `taildrop devices` to list them, or pass --force)", target)
	}
	if err != nil {
		return "", err
	}
	return dev.Name, nil
}

// absolutePaths resolves relative paths against the CLI's working directory,
// since the daemon serving the request runs elsewhere. URIs pass through.
func absolutePaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || strings.Contains(p, "://") || filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}
