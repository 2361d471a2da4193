package config

const (
	defaultConfigPath      = "~/.config/taildrop/config.toml"
	defaultTailscaleBinary = "/usr/bin/tailscale"
	defaultStatusTimeout   = 5
	defaultCacheTTL        = 15
	defaultIngressHostname = "funnel-ingress-node"
	defaultSupervisor      = "systemd-run"
	defaultNotifySend      = "notify-send"
	defaultNotifyTimeout   = 10
	defaultReceiveDir      = "~/Downloads"
	defaultStateDir        = "~/.local/share/taildrop"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	conflictSkip           = "skip"
	conflictOverwrite      = "overwrite"
	conflictRename         = "rename"
)

func defaultSupervisorArgs() []string {
	return []string{"--user", "--no-block"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tailscale: Tailscale{
			Binary:          defaultTailscaleBinary,
			StatusTimeout:   defaultStatusTimeout,
			CacheTTL:        defaultCacheTTL,
			IngressHostname: defaultIngressHostname,
		},
		Spawn: Spawn{
			Supervisor:     defaultSupervisor,
			SupervisorArgs: defaultSupervisorArgs(),
		},
		Notifications: Notifications{
			Desktop:        true,
			NotifySend:     defaultNotifySend,
			RequestTimeout: defaultNotifyTimeout,
		},
		Receive: Receive{
			Dir: defaultReceiveDir,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
