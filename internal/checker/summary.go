package checker

import (
	"sort"

	"reelcheck/internal/classification"
)

// Summary counts batch results by outcome.
type Summary struct {
	Safe         int
	Violations   int
	Undetermined int
	// Flagged counts, per jurisdiction, the videos it flagged.
	Flagged map[string]int
	// Categories counts how often each category caused a violation.
	Categories map[classification.Category]int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	summary := Summary{
		Flagged:    make(map[string]int),
		Categories: make(map[classification.Category]int),
	}
	for _, result := range results {
		switch {
		case result.Err != nil:
			summary.Undetermined++
		case result.Verdict.Safe():
			summary.Safe++
		default:
			summary.Violations++
			for _, jurisdiction := range result.Verdict.Violations() {
				summary.Flagged[jurisdiction.Name]++
				for _, category := range jurisdiction.Violations {
					summary.Categories[category]++
				}
			}
		}
	}
	return summary
}

// Failed returns the results that ended undetermined, in input order.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// TopCategories returns violating categories ordered by count, then name.
func (s Summary) TopCategories() []classification.Category {
	out := make([]classification.Category, 0, len(s.Categories))
	for category := range s.Categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.Categories[out[i]] != s.Categories[out[j]] {
			return s.Categories[out[i]] > s.Categories[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
