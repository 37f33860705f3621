// Package packager orchestrates a packaging run: it merges the walker's
// output with the resolved extra files, reads each selected file, and
// writes the serialized artifact.
//
// Error policy follows a strict split. Problems with configuration or
// environment (bad input directory, malformed pattern, unwritable or
// locked output) abort before any output is mutated. Problems local to
// one file (unreadable, binary content) are recorded in the summary and
// the run continues.
package packager

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gofrs/flock"

	"github.com/shinji-kodama/codepack/internal/extra"
	"github.com/shinji-kodama/codepack/internal/model"
	"github.com/shinji-kodama/codepack/internal/pattern"
	"github.com/shinji-kodama/codepack/internal/walker"
)

// Package runs the full pipeline for one configuration and returns the
// run summary. The returned error is non-nil only for fatal conditions;
// in that case nothing has been written to the output file.
func Package(cfg model.PackagerConfig) (*model.Summary, error) {
	summary := &model.Summary{OutputFile: cfg.OutputFile}

	ignore, err := pattern.CompileAll(cfg.IgnorePatterns)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidPattern, "invalid ignore pattern", err)
	}

	// The walk validates the input directory, so it runs before the
	// output file is touched: a bad input dir must not truncate an
	// existing artifact.
	walked, walkWarnings, err := walker.Walk(cfg.InputDir, ignore)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitBadInputDir, "invalid input directory", err)
	}
	summary.Warnings = append(summary.Warnings, walkWarnings...)

	searchRoot := cfg.SearchRoot
	if searchRoot == "" {
		searchRoot = "."
	}
	extras, extraWarnings, err := extra.Resolve(cfg.ExtraFiles, searchRoot)
	if err != nil {
		// Resolve fails either on a malformed glob spec or on an I/O
		// error listing the search root; only the former is a pattern
		// problem.
		if errors.Is(err, model.ErrInvalidPattern) {
			return nil, model.WrapCLIError(model.ExitInvalidPattern, "invalid extra-file spec", err)
		}
		return nil, model.WrapCLIError(model.ExitGeneralError, "resolve extra files", err)
	}
	summary.Warnings = append(summary.Warnings, extraWarnings...)

	selection := merge(walked, extras, ignore, cfg.OutputFile, summary)

	out, release, err := openOutput(cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	defer release()

	for _, cand := range selection {
		content, err := os.ReadFile(cand.AbsPath)
		if err != nil {
			summary.AddSkip(cand.RelPath, model.SkipUnreadable)
			summary.AddWarning("cannot read %s: %v", cand.RelPath, err)
			continue
		}
		if isBinary(content) {
			summary.AddSkip(cand.RelPath, model.SkipBinary)
			continue
		}
		if _, err := out.Write(Serialize(cand.RelPath, content)); err != nil {
			return nil, model.WrapCLIError(model.ExitBadOutput, "write output file", err)
		}
		summary.Packaged++
	}

	if err := out.Close(); err != nil {
		return nil, model.WrapCLIError(model.ExitBadOutput, "close output file", err)
	}
	return summary, nil
}

// merge builds the selection set: walker results first, then extras,
// deduplicated by relative path with the first occurrence retained.
// Walker content is assumed canonical, so it wins over extra-file
// duplicates.
//
// Two exclusions apply here: the output artifact itself, by absolute
// path comparison, so it is excluded whether or not an ignore pattern
// also covers it; and extras matching an ignore pattern, so an explicit
// extra spec cannot resurrect an ignored file.
func merge(walked, extras []model.CandidateFile, ignore []*pattern.Compiled, outputFile string, summary *model.Summary) []model.CandidateFile {
	absOutput, err := filepath.Abs(outputFile)
	if err != nil {
		absOutput = outputFile
	}
	absLock := absOutput + ".lock"

	seen := make(map[string]bool, len(walked)+len(extras))
	selection := make([]model.CandidateFile, 0, len(walked)+len(extras))

	add := func(cand model.CandidateFile, fromExtra bool) {
		if seen[cand.RelPath] {
			return
		}
		if cand.AbsPath == absOutput {
			seen[cand.RelPath] = true
			summary.AddSkip(cand.RelPath, model.SkipOutputFile)
			return
		}
		if cand.AbsPath == absLock {
			// Lock file left behind by a previous run; tool-managed,
			// never packaged.
			seen[cand.RelPath] = true
			return
		}
		if fromExtra && pattern.MatchesAny(ignore, cand.RelPath) {
			return
		}
		seen[cand.RelPath] = true
		selection = append(selection, cand)
	}

	for _, cand := range walked {
		add(cand, false)
	}
	for _, cand := range extras {
		add(cand, true)
	}
	return selection
}

// openOutput creates the artifact for a truncating write and takes an
// advisory lock for the duration of the run. The returned release func
// is safe on every exit path, including early fatal failures.
//
// The lock file is left in place after release. Removing it would open
// a window where one contender locks the old inode while another
// creates a fresh file at the same path, and both believe they hold the
// lock; keeping the file means every contender races on the same inode.
func openOutput(path string) (*os.File, func(), error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = fmt.Errorf("held by another process")
	}
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitBadOutput,
			fmt.Sprintf("cannot lock output file %s", path), err)
	}

	out, err := os.Create(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, model.WrapCLIError(model.ExitBadOutput,
			fmt.Sprintf("cannot create output file %s", path), err)
	}

	release := func() {
		_ = out.Close()
		_ = lock.Unlock()
	}
	return out, release, nil
}

// isBinary applies the text heuristic: content with a NUL byte or an
// invalid UTF-8 sequence is excluded rather than embedded corrupt.
func isBinary(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}
