// Package daemon coordinates the long-running taildrop process.
//
// It wires configuration, the detached runner, notification sinks, the device
// status cache and the transfer dispatcher into one lifecycle, with
// flock-based locking to prevent multiple instances. The same Daemon value
// also backs one-shot CLI invocations when no server is running; only Start
// and Stop touch the lock.
package daemon
