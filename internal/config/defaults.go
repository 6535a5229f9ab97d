package config

import "reelcheck/internal/services/twelvelabs"

const (
	defaultConfigPath             = "~/.config/reelcheck/config.toml"
	defaultDataDir                = "~/.local/share/reelcheck"
	defaultLogDir                 = "~/.local/share/reelcheck/logs"
	defaultProviderTimeoutSeconds = 120
	defaultProviderRetryAttempts  = 4
	defaultCheckConcurrency       = 4
	defaultNotifyTimeoutSeconds   = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	maxCheckConcurrency           = 32
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Provider: Provider{
			BaseURL:        twelvelabs.DefaultBaseURL(),
			TimeoutSeconds: defaultProviderTimeoutSeconds,
			RetryAttempts:  defaultProviderRetryAttempts,
		},
		Checks: Checks{
			Concurrency: defaultCheckConcurrency,
			History:     true,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeoutSeconds,
			Batch:                 true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
