// Package main hosts the taildrop CLI entrypoint and command graph.
//
// Commands talk to a running `taildrop serve` daemon over its socket when one
// answers and otherwise build the cache and dispatcher in-process, so file
// manager scripts work either way. The daemon keeps the device cache warm
// across invocations; without it every invocation queries tailscale once.
package main
