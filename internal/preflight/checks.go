package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"reelcheck/internal/config"
	"reelcheck/internal/services/twelvelabs"
)

// CheckProvider verifies that the video-understanding API is reachable and the
// key is valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckProvider(ctx context.Context, cfg config.Provider) Result {
	const name = "Provider API"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing (set TWELVE_LABS_API_KEY)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := twelvelabs.NewClient(twelvelabs.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, twelvelabs.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeProviderError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckIndex reports whether an index is configured for batch checks.
func CheckIndex(cfg config.Provider) Result {
	const name = "Provider index"
	if strings.TrimSpace(cfg.IndexID) == "" {
		return Result{Name: name, Detail: "index_id not set ('check --all' and 'videos' unavailable)"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.IndexID}
}

// CheckPolicies verifies that the configured jurisdiction table loads.
func CheckPolicies(cfg *config.Config) Result {
	const name = "Policies"
	table, err := cfg.LoadPolicies()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := "built-in"
	if cfg.Policies.Path != "" {
		source = cfg.Policies.Path
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d jurisdictions)", source, table.Len())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeProviderError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (provider API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (provider API unreachable)"
	}
	var statusErr *twelvelabs.StatusError
	if errors.As(err, &statusErr) && statusErr.ErrorKind() == "configuration" {
		return "auth failed (invalid api key)"
	}
	return err.Error()
}
