// Package preflight runs the environment checks reported by `taildrop doctor`:
// directory permissions for the state and receive directories and, when ntfy
// push is configured, reachability of the ntfy server.
package preflight
