// Package library implements the collection service: the single entry point
// the HTTP layer and CLI use to read and change the collection.
//
// Manual adds derive the era from the release year. Adds from the external
// catalog are idempotent per IMDb id: the existing record is returned
// unchanged when one is already stored, and the catalog is not consulted.
// The dedup check, the catalog fetch, and the insert run under one mutex so
// concurrent adds of the same title within a process produce one record.
package library
