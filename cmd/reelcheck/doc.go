// Package main hosts the reelcheck CLI entrypoint and command graph.
//
// The Cobra-based command tree checks provider-hosted videos against the
// jurisdiction policy table, evaluates saved classifier output offline, lists
// policies, videos, and check history, and scaffolds configuration. Flagged
// videos and finished batches are announced over ntfy when configured. It
// centralizes configuration resolution, logger setup, and provider wiring so
// subcommands can focus on presentation.
//
// Exit status is 0 when every checked video is safe, 2 when a verdict flagged
// content, and 1 on any error.
package main
