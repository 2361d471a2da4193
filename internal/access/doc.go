// Package access lets CLI commands talk to a running daemon when one answers
// on the socket and to an in-process cache and dispatcher otherwise.
package access
