package devices

import (
	"strings"
	"time"
)

// Device is a peer as presented to the user. Values are never mutated; a
// refresh replaces the whole list.
type Device struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Online    bool     `json:"online"`
	OS        string   `json:"os,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// Label renders the menu entry for the device, e.g. "🟢 laptop (linux)".
func (d Device) Label() string {
	var b strings.Builder
	if d.Online {
		b.WriteString("🟢 ")
	} else {
		b.WriteString("🔴 ")
	}
	b.WriteString(d.Name)
	if d.OS != "" {
		b.WriteString(" (")
		b.WriteString(d.OS)
		b.WriteByte(')')
	}
	return b.String()
}

// Snapshot is the device list captured by one successful refresh.
type Snapshot struct {
	Devices    []Device  `json:"devices"`
	CapturedAt time.Time `json:"captured_at"`
}

// Empty reports whether the snapshot holds no devices.
func (s Snapshot) Empty() bool {
	return len(s.Devices) == 0
}

// Find returns the device whose name or ID matches, ignoring case for names.
func (s Snapshot) Find(name string) (Device, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Device{}, false
	}
	for _, d := range s.Devices {
		if d.ID == name || strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Device{}, false
}

// Online returns the subset of devices currently reachable.
func (s Snapshot) Online() []Device {
	out := make([]Device, 0, len(s.Devices))
	for _, d := range s.Devices {
		if d.Online {
			out = append(out, d)
		}
	}
	return out
}
