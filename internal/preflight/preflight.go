package preflight

import (
	"context"
	"strings"

	"taildrop/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the checks that apply to cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckReceiveDir(cfg.Receive.Dir),
	}
	if endpoint := strings.TrimSpace(cfg.Notifications.NtfyTopic); endpoint != "" {
		results = append(results, CheckNtfy(ctx, endpoint, cfg.NotifyTimeout()))
	}
	return results
}
