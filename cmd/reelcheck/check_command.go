package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reelcheck/internal/checker"
	"reelcheck/internal/history"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check [video-id...]",
		Short: "Classify videos and evaluate them against every jurisdiction",
		Long: "Ask the provider to classify each video, then report which jurisdictions\n" +
			"flag which categories. Exits 2 when any video has violations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass video ids or --all (not both)")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.providerClient()
			if err != nil {
				return err
			}

			set := checker.NewVideoSet(args...)
			if all {
				if err := cfg.RequireIndex(); err != nil {
					return err
				}
				lock := flock.New(cfg.LockPath())
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire batch lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("another batch check is running (lock %s)", cfg.LockPath())
				}
				defer func() { _ = lock.Unlock() }()

				videos, err := client.ListVideos(cmd.Context(), cfg.Provider.IndexID)
				if err != nil {
					return fmt.Errorf("list videos: %w", err)
				}
				for _, video := range videos {
					set.Add(video.ID)
				}
				if set.Len() == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Index %s has no videos\n", cfg.Provider.IndexID)
					return nil
				}
			}

			chk, cleanup, err := ctx.newChecker(cmd, client)
			if err != nil {
				return err
			}
			defer cleanup()

			started := time.Now()
			results, runErr := chk.CheckAll(cmd.Context(), set)
			notifyResults(cmd, ctx, results, all, time.Since(started))
			if err := emitResults(cmd, ctx, results, set.Len() > 1); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			return resultsExit(results)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Check every video in the configured index")
	return cmd
}

func emitResults(cmd *cobra.Command, ctx *commandContext, results []checker.Result, summarize bool) error {
	if ctx.jsonOutput() {
		outputs := make([]checkOutput, 0, len(results))
		for _, result := range results {
			outputs = append(outputs, newCheckOutput(result))
		}
		if len(outputs) == 1 {
			return writeJSON(cmd, outputs[0])
		}
		return writeJSON(cmd, outputs)
	}
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, result := range results {
		renderResult(out, result, colorize)
	}
	if summarize {
		renderSummary(out, results, colorize)
	}
	return nil
}

// resultsExit maps outcomes to the process exit: undetermined checks are
// errors, otherwise any violation exits 2.
func resultsExit(results []checker.Result) error {
	if failed := checker.Failed(results); len(failed) > 0 {
		if len(results) == 1 {
			return failed[0].Err
		}
		return fmt.Errorf("%d of %d checks undetermined", len(failed), len(results))
	}
	for _, result := range results {
		if result.Outcome == history.OutcomeViolations {
			return violationsFound()
		}
	}
	return nil
}
