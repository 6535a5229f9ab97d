// Package preflight provides readiness checks for the provider API, the
// policy table, and the filesystem paths reelcheck depends on.
//
// The CLI "reelcheck doctor" command runs RunAll and renders each Result.
package preflight
