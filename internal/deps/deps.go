package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrNotExecutable reports a binary that exists but cannot be executed by the current user.
var ErrNotExecutable = errors.New("not executable")

// Requirement defines an external program taildrop relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Absolute commands are checked in place; bare names are resolved on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := Resolve(cmd)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Resolve returns the executable path for command. Commands containing a path
// separator must point at an executable file; bare names go through PATH.
func Resolve(command string) (string, error) {
	if strings.ContainsRune(command, filepath.Separator) {
		if err := Executable(command); err != nil {
			return "", err
		}
		return command, nil
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("binary %q not found", command)
	}
	return resolved, nil
}

// Executable verifies that path is a regular file the current user may execute.
func Executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("binary %q not found: %w", path, os.ErrNotExist)
		}
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("binary %q is not a regular file: %w", path, ErrNotExecutable)
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("binary %q: %w (%v)", path, ErrNotExecutable, err)
	}
	return nil
}
