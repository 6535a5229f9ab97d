package preflight

import (
	"context"

	"reelcheck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The provider
// is contacted only when online is true.
func RunAll(ctx context.Context, cfg *config.Config, online bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckPolicies(cfg),
	}
	if online {
		results = append(results, CheckProvider(ctx, cfg.Provider))
	}
	results = append(results, CheckIndex(cfg.Provider))
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
