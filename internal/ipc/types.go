package ipc

import (
	"time"

	"taildrop/internal/deps"
	"taildrop/internal/devices"
	"taildrop/internal/status"
)

// DevicesRequest fetches the cached device list.
type DevicesRequest struct {
	// Refresh forces a status query before answering.
	Refresh bool `json:"refresh"`
}

// DevicesResponse carries a device snapshot.
type DevicesResponse struct {
	Devices    []devices.Device `json:"devices"`
	CapturedAt time.Time        `json:"captured_at"`
}

// Snapshot converts the response back into a devices.Snapshot.
func (r DevicesResponse) Snapshot() devices.Snapshot {
	return devices.Snapshot{Devices: r.Devices, CapturedAt: r.CapturedAt}
}

// InvalidateRequest marks the daemon's device list stale.
type InvalidateRequest struct{}

// InvalidateResponse is empty.
type InvalidateResponse struct{}

// SendRequest dispatches files to a device.
type SendRequest struct {
	Paths  []string `json:"paths"`
	Target string   `json:"target"`
}

// SendResponse reports how many local files were dispatched.
type SendResponse struct {
	Sent int `json:"sent"`
}

// ReceiveRequest dispatches a receive into Dir, or the configured default.
type ReceiveRequest struct {
	Dir string `json:"dir"`
}

// ReceiveResponse reports the resolved destination.
type ReceiveResponse struct {
	Dir string `json:"dir"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = deps.Status

// StatusResponse represents daemon and cache status.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	StartedAt    time.Time          `json:"started_at"`
	LockPath     string             `json:"lock_path"`
	SocketPath   string             `json:"socket_path"`
	LogPath      string             `json:"log_path"`
	Cache        status.Health      `json:"cache"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
