// Package config loads, normalizes, and validates cinedex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY and PORT. The Config type centralizes every knob the server and
// CLI need so the catalog credentials, store location, and listener address
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
