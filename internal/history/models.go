package history

import (
	"time"

	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
)

// Outcome is the persisted result of a single compliance check.
type Outcome string

const (
	// OutcomeSafe means every jurisdiction accepted the video.
	OutcomeSafe Outcome = "safe"
	// OutcomeViolations means at least one jurisdiction flagged a category.
	OutcomeViolations Outcome = "violations"
	// OutcomeUndetermined means no usable classification was obtained.
	OutcomeUndetermined Outcome = "undetermined"
)

// ParseOutcome validates a stored outcome string.
func ParseOutcome(value string) (Outcome, bool) {
	switch Outcome(value) {
	case OutcomeSafe, OutcomeViolations, OutcomeUndetermined:
		return Outcome(value), true
	default:
		return "", false
	}
}

// OutcomeFor maps a verdict to its outcome.
func OutcomeFor(verdict compliance.Verdict) Outcome {
	if verdict.Safe() {
		return OutcomeSafe
	}
	return OutcomeViolations
}

// Entry is one recorded check.
type Entry struct {
	ID          string
	VideoID     string
	Source      string
	Outcome     Outcome
	Verdict     compliance.Verdict
	Annotations classification.Annotations
	ErrorKind   string
	Error       string
	CreatedAt   time.Time
}

// Stats summarizes the history table.
type Stats struct {
	Total  int
	ByKind map[Outcome]int
	Videos int
	Latest time.Time
}
