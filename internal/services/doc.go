// Package services defines shared utilities consumed by the collection
// service, the catalog client, and the HTTP layer.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and record ids for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (network vs parse vs storage) so callers can branch with errors.Is and
//     the HTTP layer can map them to status codes.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the application.
package services
