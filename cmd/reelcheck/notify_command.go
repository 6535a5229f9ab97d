package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/checker"
	"reelcheck/internal/history"
	"reelcheck/internal/logging"
	"reelcheck/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "ntfy topic not configured; set notifications.ntfy_topic in config.toml")
				return nil
			}
			svc := notifications.NewService(cfg)
			if err := svc.TestNotification(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent to %s\n", cfg.Notifications.NtfyTopic)
			return nil
		},
	}
}

// notifyResults announces flagged videos, and the batch summary when batch is
// set. Delivery failures are logged and never change the exit status.
func notifyResults(cmd *cobra.Command, ctx *commandContext, results []checker.Result, batch bool, elapsed time.Duration) {
	cfg, err := ctx.ensureConfig()
	if err != nil || cfg.Notifications.NtfyTopic == "" {
		return
	}
	svc := notifications.NewService(cfg)
	logger, err := ctx.logger(cmd)
	if err != nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "notifications")
	notifyCtx := context.WithoutCancel(cmd.Context())

	for _, result := range results {
		if result.Outcome != history.OutcomeViolations {
			continue
		}
		if err := svc.NotifyViolations(notifyCtx, result.VideoID, result.Verdict); err != nil {
			logger.Warn("violation notification failed",
				logging.String(logging.FieldVideoID, result.VideoID),
				logging.Error(err),
			)
		}
	}
	if !batch || !cfg.Notifications.Batch {
		return
	}
	summary := checker.Summarize(results)
	stats := notifications.BatchStats{
		Checked:      len(results),
		Violations:   summary.Violations,
		Undetermined: summary.Undetermined,
		Duration:     elapsed,
	}
	if err := svc.NotifyBatchCompleted(notifyCtx, stats); err != nil {
		logger.Warn("batch notification failed", logging.Error(err))
	}
}
