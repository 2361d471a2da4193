// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. Device
// snapshots travel as plain structs so the CLI renders the same data whether
// it came from the daemon or an in-process cache.
package ipc
