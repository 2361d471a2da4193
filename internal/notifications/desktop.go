package notifications

import (
	"context"

	"taildrop/internal/runner"
)

// Desktop shows notifications with notify-send.
type Desktop struct {
	binary  string
	spawner Spawner
}

// NewDesktop returns a sink invoking binary (usually "notify-send") through spawner.
func NewDesktop(binary string, spawner Spawner) *Desktop {
	if binary == "" {
		binary = "notify-send"
	}
	return &Desktop{binary: binary, spawner: spawner}
}

// Notify spawns `notify-send -i <icon> <title> <message>` and returns at once.
func (d *Desktop) Notify(_ context.Context, n Notification) {
	if d == nil || d.spawner == nil {
		return
	}
	icon := n.Icon
	if icon == "" {
		icon = IconTransmit
	}
	d.spawner.SpawnDetached(runner.Command{
		Path: d.binary,
		Args: []string{"-i", string(icon), n.Title, n.Message},
	})
}
