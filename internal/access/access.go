package access

import (
	"context"

	"taildrop/internal/daemon"
	"taildrop/internal/devices"
	"taildrop/internal/ipc"
)

// Access provides taildrop operations regardless of IPC or in-process backing.
type Access interface {
	Devices(ctx context.Context) (devices.Snapshot, error)
	Refresh(ctx context.Context) (devices.Snapshot, error)
	Invalidate(ctx context.Context) error
	Send(ctx context.Context, paths []string, target string) (int, error)
	Receive(ctx context.Context, dir string) (string, error)
	Status(ctx context.Context) (*ipc.StatusResponse, error)
	TestNotification(ctx context.Context) (*ipc.TestNotificationResponse, error)
	// Remote reports whether calls are served by a running daemon.
	Remote() bool
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewLocalAccess returns an Access backed by an unstarted, in-process daemon.
func NewLocalAccess(d *daemon.Daemon) Access {
	return &localAccess{daemon: d}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Remote() bool { return true }

func (a *ipcAccess) Devices(_ context.Context) (devices.Snapshot, error) {
	resp, err := a.client.Devices(false)
	if err != nil {
		return devices.Snapshot{}, err
	}
	return resp.Snapshot(), nil
}

func (a *ipcAccess) Refresh(_ context.Context) (devices.Snapshot, error) {
	resp, err := a.client.Devices(true)
	if err != nil {
		return devices.Snapshot{}, err
	}
	return resp.Snapshot(), nil
}

func (a *ipcAccess) Invalidate(_ context.Context) error {
	return a.client.Invalidate()
}

func (a *ipcAccess) Send(_ context.Context, paths []string, target string) (int, error) {
	resp, err := a.client.Send(paths, target)
	if err != nil {
		return 0, err
	}
	return resp.Sent, nil
}

func (a *ipcAccess) Receive(_ context.Context, dir string) (string, error) {
	resp, err := a.client.Receive(dir)
	if err != nil {
		return "", err
	}
	return resp.Dir, nil
}

func (a *ipcAccess) Status(_ context.Context) (*ipc.StatusResponse, error) {
	return a.client.Status()
}

func (a *ipcAccess) TestNotification(_ context.Context) (*ipc.TestNotificationResponse, error) {
	return a.client.TestNotification()
}

type localAccess struct {
	daemon *daemon.Daemon
}

func (a *localAccess) Remote() bool { return false }

func (a *localAccess) Devices(ctx context.Context) (devices.Snapshot, error) {
	return a.daemon.Devices(ctx), nil
}

func (a *localAccess) Refresh(ctx context.Context) (devices.Snapshot, error) {
	return a.daemon.Refresh(ctx), nil
}

func (a *localAccess) Invalidate(_ context.Context) error {
	a.daemon.Invalidate()
	return nil
}

func (a *localAccess) Send(ctx context.Context, paths []string, target string) (int, error) {
	return a.daemon.Send(ctx, paths, target)
}

func (a *localAccess) Receive(ctx context.Context, dir string) (string, error) {
	return a.daemon.Receive(ctx, dir)
}

func (a *localAccess) Status(ctx context.Context) (*ipc.StatusResponse, error) {
	st := a.daemon.Status(ctx)
	return &ipc.StatusResponse{
		Running:      st.Running,
		LockPath:     st.LockFilePath,
		SocketPath:   st.SocketPath,
		LogPath:      st.LogPath,
		Cache:        st.Cache,
		Dependencies: st.Dependencies,
	}, nil
}

func (a *localAccess) TestNotification(ctx context.Context) (*ipc.TestNotificationResponse, error) {
	sent, message := a.daemon.TestNotification(ctx)
	return &ipc.TestNotificationResponse{Sent: sent, Message: message}, nil
}
