package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelcheck/internal/checker"
	"reelcheck/internal/compliance"
	"reelcheck/internal/config"
	"reelcheck/internal/history"
	"reelcheck/internal/logging"
	"reelcheck/internal/services/twelvelabs"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger builds the command logger once; the log file stays open for the
// life of the process.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			c.logErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.log = logger
	})
	return c.log, c.logErr
}

func (c *commandContext) policies() (*compliance.Table, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	table, err := cfg.LoadPolicies()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return table, nil
}

func (c *commandContext) providerClient() (*twelvelabs.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireProvider(); err != nil {
		return nil, err
	}
	return twelvelabs.NewClient(twelvelabs.Config{
		APIKey:         cfg.Provider.APIKey,
		BaseURL:        cfg.Provider.BaseURL,
		TimeoutSeconds: cfg.Provider.TimeoutSeconds,
	}, twelvelabs.WithRetryMaxAttempts(cfg.Provider.RetryAttempts)), nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// newChecker wires a checker for cmd. The returned cleanup closes the history
// store when one was opened.
func (c *commandContext) newChecker(cmd *cobra.Command, provider checker.Provider) (*checker.Checker, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	table, err := c.policies()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts := []checker.Option{
		checker.WithLogger(logger),
		checker.WithPrompt(cfg.Provider.Prompt),
		checker.WithConcurrency(cfg.Checks.Concurrency),
	}
	cleanup := func() {}
	if cfg.Checks.History {
		store, err := c.openHistory()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, checker.WithRecorder(store))
		cleanup = func() { _ = store.Close() }
	}
	return checker.New(provider, compliance.NewEngine(table), opts...), cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
