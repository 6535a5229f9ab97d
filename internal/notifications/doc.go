// Package notifications publishes check events to ntfy.
//
// The topic URL comes from the [notifications] section of config.toml; with no
// topic configured NewService returns a no-op so callers never branch on it.
// Events cover flagged videos, finished batches, and errors.
package notifications
