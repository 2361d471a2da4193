// Package dispatch launches tailscale file transfers without waiting on them.
//
// Send and Receive emit one notification, hand the command to the runner's
// detached path and return. Nothing reports whether the transfer succeeded.
package dispatch
