package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"taildrop/internal/ipc"
	"taildrop/internal/status"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func dependencyLines(deps []ipc.DependencyStatus, colorize bool) []string {
	lines := make([]string, 0, len(deps)+1)
	missing := make([]string, 0)
	for _, dep := range deps {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing", statusError, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func cacheLine(health status.Health, colorize bool) string {
	switch health.Outcome {
	case status.OutcomeNone:
		return renderStatusLine("Device cache", statusInfo, "not queried yet", colorize)
	case status.OutcomeOK:
		msg := fmt.Sprintf("%d devices", health.Devices)
		if !health.CapturedAt.IsZero() {
			msg += ", captured " + health.CapturedAt.Local().Format("15:04:05")
		}
		return renderStatusLine("Device cache", statusOK, msg, colorize)
	default:
		msg := string(health.Outcome)
		if health.Detail != "" {
			msg += ": " + health.Detail
		}
		if health.Devices > 0 {
			msg += fmt.Sprintf(" (serving %d stale devices)", health.Devices)
		}
		return renderStatusLine("Device cache", statusWarn, msg, colorize)
	}
}
