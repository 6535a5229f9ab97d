// Package logging assembles structured slog loggers and formatting helpers used
// across reelcheck.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so checker code can tag log lines with
// video IDs, jurisdictions, and check IDs. Console output goes to stderr; when
// a log directory is configured every record is also appended as JSON to
// reelcheck.log. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
