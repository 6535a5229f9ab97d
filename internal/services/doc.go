// Package services defines shared utilities consumed by the compliance checker
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video IDs, jurisdiction names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap and Kind helpers that translate
//     failures into consistent kinds (validation, configuration, transient).
//
// Provider clients live in subpackages (see twelvelabs).
package services
