// Package history persists the outcome of every compliance check in SQLite.
//
// Each row carries the check ID, the video checked, its outcome, the
// jurisdiction verdict, and the annotations returned by the classifier. The
// full classification record is not stored. The schema is embedded and
// versioned; a mismatched database is reported with ErrSchemaMismatch rather
// than migrated in place.
package history
