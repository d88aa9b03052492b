// Package main hosts the cinedex CLI entrypoint and command graph.
//
// The Cobra command tree opens the configured store and OMDB client for
// one-shot collection commands, and runs the HTTP API under `cinedex serve`.
// Configuration resolution and logger setup live in commandContext so
// subcommands only deal with flags and output.
package main
