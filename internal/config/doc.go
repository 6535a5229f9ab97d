// Package config loads, normalizes, and validates reelcheck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TWELVE_LABS_API_KEY. The Config type centralizes every knob the CLI needs:
// provider credentials, the jurisdiction policy file, batch concurrency,
// ntfy notifications, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
