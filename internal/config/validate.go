package config

import (
	"errors"
	"fmt"
	"net/url"

	"reelcheck/internal/compliance"
)

// Validate ensures the configuration is usable. Provider credentials are not
// required here because offline commands (evaluate, policies) never call the
// provider; RequireProvider checks them on demand.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validatePolicies(); err != nil {
		return err
	}
	if err := c.validateChecks(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProvider() error {
	parsed, err := url.Parse(c.Provider.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("provider.base_url must be an absolute URL, got %q", c.Provider.BaseURL)
	}
	return nil
}

func (c *Config) validatePolicies() error {
	if c.Policies.Path == "" {
		return nil
	}
	if _, err := compliance.FormatForPath(c.Policies.Path); err != nil {
		return fmt.Errorf("policies.path: %w", err)
	}
	return nil
}

func (c *Config) validateChecks() error {
	if c.Checks.Concurrency > maxCheckConcurrency {
		return fmt.Errorf("checks.concurrency must be at most %d", maxCheckConcurrency)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// RequireProvider reports whether provider-backed commands can run.
func (c *Config) RequireProvider() error {
	if c.Provider.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("provider.api_key is required. Set TWELVE_LABS_API_KEY env var or edit %s (create with 'reelcheck config init')", defaultPath)
	}
	return nil
}

// RequireIndex reports whether index-wide commands can run.
func (c *Config) RequireIndex() error {
	if err := c.RequireProvider(); err != nil {
		return err
	}
	if c.Provider.IndexID == "" {
		return errors.New("provider.index_id is required. Set TWELVE_LABS_INDEX_ID env var or edit the config file")
	}
	return nil
}

// LoadPolicies returns the configured jurisdiction table.
func (c *Config) LoadPolicies() (*compliance.Table, error) {
	if c.Policies.Path == "" {
		return compliance.DefaultTable(), nil
	}
	return compliance.LoadTable(c.Policies.Path)
}
