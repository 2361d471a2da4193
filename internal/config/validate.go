package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTailscale(); err != nil {
		return err
	}
	if err := c.validateReceive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTailscale() error {
	if c.Tailscale.Binary == "" {
		return errors.New("tailscale.binary must be set")
	}
	if !filepath.IsAbs(c.Tailscale.Binary) {
		return fmt.Errorf("tailscale.binary must be an absolute path (got %q)", c.Tailscale.Binary)
	}
	return ensurePositiveMap(map[string]int{
		"tailscale.status_timeout":      c.Tailscale.StatusTimeout,
		"tailscale.cache_ttl":           c.Tailscale.CacheTTL,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateReceive() error {
	switch c.Receive.Conflict {
	case "", conflictSkip, conflictOverwrite, conflictRename:
		return nil
	default:
		return fmt.Errorf("receive.conflict must be one of skip, overwrite, rename (got %q)", c.Receive.Conflict)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
