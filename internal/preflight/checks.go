package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"taildrop/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReceiveDir passes when the receive directory is writable or can be
// created under a writable parent, since `taildrop receive` creates it.
func CheckReceiveDir(dir string) Result {
	const name = "Receive directory"

	path, err := config.ExpandPath(dir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}

	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first receive)", path)}
}

// CheckNtfy verifies the ntfy server behind endpoint answers its health
// probe. It makes a single attempt.
func CheckNtfy(ctx context.Context, endpoint string, timeout time.Duration) Result {
	const name = "ntfy"

	base, err := url.Parse(endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid topic url %q", endpoint)}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	health := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/v1/health"}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, health.String(), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeHTTPError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: base.Host + " reachable"}
}

func summarizeHTTPError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (server unreachable)"
	}
	return err.Error()
}
