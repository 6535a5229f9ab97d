// Package compliance evaluates classification records against per-jurisdiction
// content regulations.
//
// A Table holds one ordered rule list per jurisdiction. Each rule names a
// category, whether the category may be present at all, and optionally the
// single severity label that is tolerated. Engine.Evaluate walks every
// jurisdiction and reports the categories that break its rules; the result is
// a Verdict that renders as "video is safe" when nothing is flagged.
//
// Tables are plain data. New jurisdictions and categories are added by editing
// a policy file (TOML or YAML) or by passing rules to NewTable; the evaluation
// code never branches on a jurisdiction name.
//
// Evaluation is pure: it performs no I/O, never fails, and is safe to call from
// many goroutines against the same Engine.
package compliance
