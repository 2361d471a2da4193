// Package status keeps the process-wide view of reachable tailnet devices.
//
// Cache.Get is the only entry point callers need: it answers from memory while
// the snapshot is younger than the TTL, otherwise it runs `tailscale status
// --json` once under a fixed timeout. Any failure keeps the previous snapshot
// and tells the user through the notification sink; Get itself never fails.
// A missing binary is reported once per streak rather than on every call.
package status
