// Package model defines the domain types for the codepack CLI.
//
// All entities in this package represent the core data structures of the
// packaging pipeline. They are build-once values: a PackagerConfig is
// created at startup and read-only for the lifetime of a run, candidate
// files are produced transiently during traversal, and the Summary is
// appended to as the run progresses and returned to the caller.
package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the packaging pipeline. Callers use errors.Is to
// distinguish them; the concrete messages are produced at wrap sites
// with fmt.Errorf("%w: ...").
var (
	// ErrInvalidPattern indicates a glob pattern with unbalanced or
	// unsupported syntax. A broken filter silently changing the selection
	// set is worse than refusing to run, so this error is fatal at startup.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrMissingExtraFile indicates a literal extra-file path that does not
	// exist. Literal paths are explicit user intent and deserve a stronger
	// signal than glob misses, but the failure is a warning: packaging
	// continues with the remaining files.
	ErrMissingExtraFile = errors.New("extra file not found")
)

// PackagerConfig holds the validated configuration for one packaging run.
// It is created once at startup from CLI/config input and never mutated.
type PackagerConfig struct {
	// InputDir is the root of the tree to walk.
	InputDir string

	// OutputFile is the path of the artifact to write. Opened for a
	// truncating write; an unwritable path aborts the run before any
	// output is produced.
	OutputFile string

	// ExtraFiles lists extra include specifications, each a literal path
	// or a glob pattern, resolved against SearchRoot rather than InputDir.
	ExtraFiles []string

	// IgnorePatterns lists glob patterns for files and directories to
	// exclude from the walk. Order is preserved but has no semantic
	// meaning: a path is ignored if any pattern matches.
	IgnorePatterns []string

	// SearchRoot is the directory extra-file specs are resolved against.
	// The CLI sets this to the process working directory; it is an
	// explicit field so the core stays testable without chdir tricks.
	SearchRoot string
}

// CandidateFile pairs a file's absolute path with its path relative to
// the traversal root. Relative paths always use forward slashes, which
// keeps pattern matching and artifact markers platform independent.
type CandidateFile struct {
	// AbsPath is the absolute filesystem path, used for reading bytes
	// and for output self-inclusion checks.
	AbsPath string

	// RelPath is the slash-separated path relative to the root the file
	// was discovered under. It is the dedup key of the selection set and
	// the path written into the artifact marker line.
	RelPath string
}

// SkipReason classifies why a selected file was left out of the artifact.
type SkipReason string

const (
	// SkipBinary marks a file whose content contains a NUL byte or is not
	// valid UTF-8. Binary content is excluded rather than embedded.
	SkipBinary SkipReason = "binary"

	// SkipUnreadable marks a file that could not be read. The failure is
	// recorded and the run continues.
	SkipUnreadable SkipReason = "unreadable"

	// SkipOutputFile marks the output artifact itself when it falls inside
	// the walked tree. It is always excluded to prevent self-inclusion.
	SkipOutputFile SkipReason = "output file"
)

// SkipRecord describes one file that was selected but not packaged.
type SkipRecord struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
}

// Summary reports the outcome of a packaging run. Non-fatal conditions
// accumulate here rather than being reported independently, so the caller
// gets one coherent report to render.
type Summary struct {
	// Packaged is the number of file blocks written to the artifact.
	Packaged int `json:"packaged"`

	// Skipped lists files that were selected but excluded, with reasons.
	Skipped []SkipRecord `json:"skipped,omitempty"`

	// Warnings lists non-fatal problems encountered during the run
	// (permission errors, missing literal extra files, skipped symlinks).
	Warnings []string `json:"warnings,omitempty"`

	// OutputFile echoes the artifact path for display.
	OutputFile string `json:"outputFile"`
}

// AddWarning appends a formatted warning message to the summary.
func (s *Summary) AddWarning(format string, args ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// AddSkip records a file excluded from the artifact.
func (s *Summary) AddSkip(path string, reason SkipReason) {
	s.Skipped = append(s.Skipped, SkipRecord{Path: path, Reason: reason})
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a run.
type ExitCode int

const (
	// ExitSuccess indicates the run completed, possibly with warnings.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitBadInputDir indicates the input directory does not exist or is
	// not a directory. Nothing partial is written.
	ExitBadInputDir ExitCode = 2

	// ExitBadOutput indicates the output file could not be created or
	// locked. Nothing partial is written.
	ExitBadOutput ExitCode = 3

	// ExitInvalidPattern indicates a malformed glob in the ignore or
	// extra-file specs. Fatal at startup.
	ExitInvalidPattern ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
