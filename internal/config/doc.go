// Package config loads, normalizes, and validates taildrop configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: the tailscale binary and its status timeout, the device
// cache TTL, the detached-spawn supervisor, and notification transports.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
