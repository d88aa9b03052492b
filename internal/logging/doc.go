// Package logging assembles structured slog loggers and formatting helpers used
// across cinedex.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers and the
// collection service automatically tag log lines with correlation and record
// IDs. The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
