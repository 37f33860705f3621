// Package model defines the domain types and value objects for the
// codepack CLI.
//
// This package contains pure data structures with no external
// dependencies. A PackagerConfig describes one run, CandidateFile values
// flow from the walker and resolver into the packager, and the Summary
// accumulates the outcome for the caller to render.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
