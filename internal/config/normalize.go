package config

import (
	"fmt"
	"os"
	"strings"

	"reelcheck/internal/services/twelvelabs"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	if err := c.normalizePolicies(); err != nil {
		return err
	}
	c.normalizeChecks()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProvider() {
	c.Provider.APIKey = strings.TrimSpace(c.Provider.APIKey)
	if c.Provider.APIKey == "" {
		if value, ok := os.LookupEnv("TWELVE_LABS_API_KEY"); ok {
			c.Provider.APIKey = strings.TrimSpace(value)
		}
	}
	c.Provider.IndexID = strings.TrimSpace(c.Provider.IndexID)
	if c.Provider.IndexID == "" {
		if value, ok := os.LookupEnv("TWELVE_LABS_INDEX_ID"); ok {
			c.Provider.IndexID = strings.TrimSpace(value)
		}
	}
	c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.BaseURL), "/")
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = twelvelabs.DefaultBaseURL()
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = defaultProviderTimeoutSeconds
	}
	if c.Provider.RetryAttempts <= 0 {
		c.Provider.RetryAttempts = defaultProviderRetryAttempts
	}
	c.Provider.Prompt = strings.TrimSpace(c.Provider.Prompt)
}

func (c *Config) normalizePolicies() error {
	c.Policies.Path = strings.TrimSpace(c.Policies.Path)
	if c.Policies.Path == "" {
		return nil
	}
	expanded, err := expandPath(c.Policies.Path)
	if err != nil {
		return fmt.Errorf("policies.path: %w", err)
	}
	c.Policies.Path = expanded
	return nil
}

func (c *Config) normalizeChecks() {
	if c.Checks.Concurrency <= 0 {
		c.Checks.Concurrency = defaultCheckConcurrency
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
