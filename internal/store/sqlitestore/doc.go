// Package sqlitestore persists the collection in SQLite.
//
// It offers the same contract as the JSON file store: insertion-ordered
// listing, lookups by id and IMDb id, patch updates that never touch id or
// dateAdded, and case-insensitive search. Every mutation is committed before
// the call returns.
//
// Schema changes bump schemaVersion in schema.go. A database created by a
// different version is rejected with ErrSchemaMismatch rather than migrated.
package sqlitestore
