// Package devices turns a `tailscale status --json` payload into the ordered
// list of peers a user can send files to.
//
// Build is pure: it drops internal ingress nodes and peers owned by other
// accounts, derives a short display name, and orders online peers first.
package devices
