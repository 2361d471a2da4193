// Package daemonrun hosts the `taildrop serve` process: logging to the state
// directory, the daemon lifecycle and the IPC server.
package daemonrun
