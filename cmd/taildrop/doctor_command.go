package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taildrop/internal/access"
	"taildrop/internal/ipc"
	"taildrop/internal/preflight"
)

type doctorReport struct {
	Status *ipc.StatusResponse `json:"status"`
	Checks []preflight.Result  `json:"checks"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, configuration and the device cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(func(a access.Access) error {
				if _, err := a.Devices(cmd.Context()); err != nil {
					return err
				}
				st, err := a.Status(cmd.Context())
				if err != nil {
					return err
				}
				checks := preflight.RunAll(cmd.Context(), cfg)
				if jsonOutput {
					return writeJSON(cmd, doctorReport{Status: st, Checks: checks})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := renderSectionHeader("Dependencies", colorize)
				lines = append(lines, dependencyLines(st.Dependencies, colorize)...)
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Environment", colorize)...)
				for _, check := range checks {
					kind := statusOK
					if !check.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Taildrop", colorize)...)
				mode := "in-process (no daemon)"
				if a.Remote() {
					mode = fmt.Sprintf("daemon (pid %d)", st.PID)
				}
				lines = append(lines,
					renderStatusLine("Mode", statusInfo, mode, colorize),
					cacheLine(st.Cache, colorize),
					renderStatusLine("Desktop notify", statusInfo, yesNo(cfg.Notifications.Desktop), colorize),
					renderStatusLine("ntfy", statusInfo, yesNo(strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""), colorize),
					renderStatusLine("Receive dir", statusInfo, cfg.Receive.Dir, colorize),
				)
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
