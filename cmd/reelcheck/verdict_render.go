package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"reelcheck/internal/checker"
	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
	"reelcheck/internal/history"
	"reelcheck/internal/services"
)

// checkOutput is the JSON form of a check result.
type checkOutput struct {
	CheckID     string                     `json:"check_id"`
	VideoID     string                     `json:"video_id,omitempty"`
	Source      string                     `json:"source"`
	Outcome     history.Outcome            `json:"outcome"`
	Verdict     *compliance.Verdict        `json:"verdict,omitempty"`
	Annotations classification.Annotations `json:"annotations,omitempty"`
	ErrorKind   string                     `json:"error_kind,omitempty"`
	Error       string                     `json:"error,omitempty"`
	DurationMS  int64                      `json:"duration_ms"`
}

func newCheckOutput(result checker.Result) checkOutput {
	out := checkOutput{
		CheckID:     result.ID,
		VideoID:     result.VideoID,
		Source:      result.Source,
		Outcome:     result.Outcome,
		Annotations: result.Record.Annotations,
		DurationMS:  result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		out.ErrorKind = services.Kind(result.Err)
		out.Error = result.Err.Error()
	} else {
		verdict := result.Verdict
		out.Verdict = &verdict
	}
	return out
}

func outcomeStatus(outcome history.Outcome) statusKind {
	switch outcome {
	case history.OutcomeSafe:
		return statusOK
	case history.OutcomeViolations:
		return statusWarn
	case history.OutcomeUndetermined:
		return statusError
	default:
		return statusInfo
	}
}

func resultLabel(result checker.Result) string {
	if result.VideoID != "" {
		return result.VideoID
	}
	return result.Source
}

// renderResult writes one check result for humans: a status line, then the
// jurisdiction table when anything was flagged.
func renderResult(w io.Writer, result checker.Result, colorize bool) {
	switch {
	case result.Err != nil:
		fmt.Fprintln(w, renderStatusLine(resultLabel(result), statusError, "undetermined: "+result.Err.Error(), colorize))
	case result.Verdict.Safe():
		fmt.Fprintln(w, renderStatusLine(resultLabel(result), statusOK, compliance.SafeVideoMessage, colorize))
	default:
		flagged := len(result.Verdict.Violations())
		message := fmt.Sprintf("flagged in %d of %d jurisdictions", flagged, len(result.Verdict.Jurisdictions))
		fmt.Fprintln(w, renderStatusLine(resultLabel(result), statusWarn, message, colorize))
		fmt.Fprintln(w, renderVerdictTable(result.Verdict, result.Record.Annotations))
	}
}

func renderVerdictTable(verdict compliance.Verdict, annotations classification.Annotations) string {
	rows := make([][]string, 0, len(verdict.Jurisdictions))
	for _, jurisdiction := range verdict.Jurisdictions {
		if jurisdiction.Safe() {
			rows = append(rows, []string{jurisdiction.Name, compliance.SafeJurisdiction, ""})
			continue
		}
		names := make([]string, 0, len(jurisdiction.Violations))
		var notes []string
		for _, category := range jurisdiction.Violations {
			names = append(names, category.String())
			notes = append(notes, annotations[category.String()]...)
		}
		rows = append(rows, []string{jurisdiction.Name, strings.Join(names, ", "), strings.Join(notes, "; ")})
	}
	return renderTable([]string{"Jurisdiction", "Violations", "Evidence"}, rows, nil)
}

func renderSummary(w io.Writer, results []checker.Result, colorize bool) {
	summary := checker.Summarize(results)
	for _, line := range renderSectionHeader("Summary", colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, renderStatusLine("Safe", statusOK, fmt.Sprint(summary.Safe), colorize))
	fmt.Fprintln(w, renderStatusLine("Violations", statusWarn, fmt.Sprint(summary.Violations), colorize))
	fmt.Fprintln(w, renderStatusLine("Undetermined", statusError, fmt.Sprint(summary.Undetermined), colorize))
	if top := summary.TopCategories(); len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, category := range top {
			parts = append(parts, fmt.Sprintf("%s (%d)", category, summary.Categories[category]))
		}
		fmt.Fprintln(w, renderStatusLine("Top categories", statusInfo, strings.Join(parts, ", "), colorize))
	}
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
