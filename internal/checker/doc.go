// Package checker runs compliance checks end to end.
//
// A check asks the provider to classify a video, extracts the classification
// record from the free-text reply, evaluates it against every jurisdiction,
// and records the outcome in history. A check that cannot obtain a usable
// record ends undetermined, never safe. CheckAll fans out over a caller-owned
// VideoSet with bounded parallelism and returns results in set order.
package checker
