package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"taildrop/internal/daemon"
	"taildrop/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: serverCtx}
	if err := rpcServer.RegisterName(ServiceName, srv); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    srv.logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Devices(req DevicesRequest, resp *DevicesResponse) error {
	snap := s.daemon.Devices(s.ctx)
	if req.Refresh {
		snap = s.daemon.Refresh(s.ctx)
	}
	resp.Devices = snap.Devices
	resp.CapturedAt = snap.CapturedAt
	return nil
}

func (s *service) Invalidate(_ InvalidateRequest, _ *InvalidateResponse) error {
	s.logger.Debug("device cache invalidated via IPC")
	s.daemon.Invalidate()
	return nil
}

func (s *service) Send(req SendRequest, resp *SendResponse) error {
	sent, err := s.daemon.Send(s.ctx, req.Paths, req.Target)
	if err != nil {
		return err
	}
	resp.Sent = sent
	s.logger.Info("send requested via IPC",
		logging.String(logging.FieldEventType, "ipc_send"),
		logging.String("target", req.Target),
		logging.Int("files", sent))
	return nil
}

func (s *service) Receive(req ReceiveRequest, resp *ReceiveResponse) error {
	dir, err := s.daemon.Receive(s.ctx, req.Dir)
	if err != nil {
		return err
	}
	resp.Dir = dir
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	st := s.daemon.Status(s.ctx)
	resp.Running = st.Running
	resp.PID = st.PID
	resp.StartedAt = st.StartedAt
	resp.LockPath = st.LockFilePath
	resp.SocketPath = st.SocketPath
	resp.LogPath = st.LogPath
	resp.Cache = st.Cache
	resp.Dependencies = st.Dependencies
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	resp.Sent, resp.Message = s.daemon.TestNotification(s.ctx)
	return nil
}
