package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/compliance"
	"reelcheck/internal/history"
)

type historyOutput struct {
	CheckID   string              `json:"check_id"`
	VideoID   string              `json:"video_id,omitempty"`
	Source    string              `json:"source,omitempty"`
	Outcome   history.Outcome     `json:"outcome"`
	Verdict   *compliance.Verdict `json:"verdict,omitempty"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var videoID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded compliance checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []*history.Entry
			if id := strings.TrimSpace(videoID); id != "" {
				entries, err = store.ForVideo(cmd.Context(), id)
			} else {
				entries, err = store.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				outputs := make([]historyOutput, 0, len(entries))
				for _, entry := range entries {
					outputs = append(outputs, newHistoryOutput(entry))
				}
				return writeJSON(cmd, outputs)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checks recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					formatTimestamp(entry.CreatedAt),
					labelOrDash(entry.VideoID, entry.Source),
					string(entry.Outcome),
					historyDetail(entry),
					entry.ID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Checked", "Video", "Outcome", "Detail", "Check ID"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent checks to show (0 for all)")
	cmd.Flags().StringVar(&videoID, "video", "", "Only show checks for this video id")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryStatsCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <check-id>",
		Short: "Show one recorded check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("check %s not found", args[0])
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, newHistoryOutput(entry))
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Check", statusInfo, entry.ID, colorize))
			fmt.Fprintln(out, renderStatusLine("Video", statusInfo, labelOrDash(entry.VideoID, entry.Source), colorize))
			fmt.Fprintln(out, renderStatusLine("Checked", statusInfo, formatTimestamp(entry.CreatedAt), colorize))
			fmt.Fprintln(out, renderStatusLine("Outcome", outcomeStatus(entry.Outcome), string(entry.Outcome), colorize))
			switch entry.Outcome {
			case history.OutcomeUndetermined:
				fmt.Fprintln(out, renderStatusLine("Error", statusError, entry.Error, colorize))
			case history.OutcomeViolations:
				fmt.Fprintln(out, renderVerdictTable(entry.Verdict, entry.Annotations))
			}
			return nil
		},
	}
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded checks by outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"total":        stats.Total,
					"videos":       stats.Videos,
					"safe":         stats.ByKind[history.OutcomeSafe],
					"violations":   stats.ByKind[history.OutcomeViolations],
					"undetermined": stats.ByKind[history.OutcomeUndetermined],
					"latest":       stats.Latest,
				})
			}
			rows := [][]string{
				{"Total checks", fmt.Sprint(stats.Total)},
				{"Distinct videos", fmt.Sprint(stats.Videos)},
				{"Safe", fmt.Sprint(stats.ByKind[history.OutcomeSafe])},
				{"Violations", fmt.Sprint(stats.ByKind[history.OutcomeViolations])},
				{"Undetermined", fmt.Sprint(stats.ByKind[history.OutcomeUndetermined])},
				{"Last check", formatTimestamp(stats.Latest)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded check",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear history without --yes")
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d checks\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newHistoryOutput(entry *history.Entry) historyOutput {
	out := historyOutput{
		CheckID:   entry.ID,
		VideoID:   entry.VideoID,
		Source:    entry.Source,
		Outcome:   entry.Outcome,
		ErrorKind: entry.ErrorKind,
		Error:     entry.Error,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Outcome != history.OutcomeUndetermined {
		verdict := entry.Verdict
		out.Verdict = &verdict
	}
	return out
}

func historyDetail(entry *history.Entry) string {
	switch entry.Outcome {
	case history.OutcomeUndetermined:
		if entry.ErrorKind != "" {
			return entry.ErrorKind
		}
		return "error"
	case history.OutcomeViolations:
		names := make([]string, 0, len(entry.Verdict.Jurisdictions))
		for _, j := range entry.Verdict.Violations() {
			names = append(names, j.Name)
		}
		return "flagged: " + strings.Join(names, ", ")
	default:
		return compliance.SafeVideoMessage
	}
}

func labelOrDash(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return "-"
}
