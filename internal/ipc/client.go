package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// ServiceName is the RPC receiver name registered by the server.
const ServiceName = "Taildrop"

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(ServiceName+"."+method, req, resp)
}

// Devices returns the daemon's device list, optionally forcing a refresh.
func (c *Client) Devices(refresh bool) (*DevicesResponse, error) {
	var resp DevicesResponse
	if err := c.call("Devices", DevicesRequest{Refresh: refresh}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Invalidate marks the daemon's device list stale.
func (c *Client) Invalidate() error {
	return c.call("Invalidate", InvalidateRequest{}, &InvalidateResponse{})
}

// Send dispatches paths to target through the daemon.
func (c *Client) Send(paths []string, target string) (*SendResponse, error) {
	var resp SendResponse
	if err := c.call("Send", SendRequest{Paths: paths, Target: target}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Receive dispatches a receive into dir through the daemon.
func (c *Client) Receive(dir string) (*ReceiveResponse, error) {
	var resp ReceiveResponse
	if err := c.call("Receive", ReceiveRequest{Dir: dir}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.call("TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
