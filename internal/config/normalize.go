package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTailscale()
	c.normalizeSpawn()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Receive.Dir) == "" {
		c.Receive.Dir = defaultReceiveDir
	}
	if c.Receive.Dir, err = expandPath(c.Receive.Dir); err != nil {
		return fmt.Errorf("receive.dir: %w", err)
	}
	c.Receive.Conflict = strings.ToLower(strings.TrimSpace(c.Receive.Conflict))
	return nil
}

func (c *Config) normalizeTailscale() {
	c.Tailscale.Binary = strings.TrimSpace(c.Tailscale.Binary)
	if c.Tailscale.Binary == "" {
		c.Tailscale.Binary = defaultTailscaleBinary
	}
	c.Tailscale.IngressHostname = strings.TrimSpace(c.Tailscale.IngressHostname)
	if c.Tailscale.IngressHostname == "" {
		c.Tailscale.IngressHostname = defaultIngressHostname
	}
}

func (c *Config) normalizeSpawn() {
	c.Spawn.Supervisor = strings.TrimSpace(c.Spawn.Supervisor)
	args := c.Spawn.SupervisorArgs[:0]
	for _, arg := range c.Spawn.SupervisorArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Spawn.SupervisorArgs = args
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NotifySend = strings.TrimSpace(c.Notifications.NotifySend)
	if c.Notifications.NotifySend == "" {
		c.Notifications.NotifySend = defaultNotifySend
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
