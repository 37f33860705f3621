// Package extra expands extra-include specifications into concrete files.
//
// Extra specs are resolved against an explicit search root (typically
// the process working directory, passed in by the CLI) rather than the
// packager's input directory, because extra files commonly live outside
// the packaged subtree (a top-level manifest, a readme).
//
// Spec semantics:
//   - a glob spec matching zero files contributes nothing, silently;
//     users often pass optimistic globs
//   - a literal spec naming a missing path produces a warning; literal
//     paths are explicit intent and deserve the stronger signal
//   - a literal spec naming a directory contributes its whole subtree
package extra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/codepack/internal/model"
	"github.com/shinji-kodama/codepack/internal/pattern"
	"github.com/shinji-kodama/codepack/internal/walker"
)

// Resolve expands specs into candidate files in spec order, with each
// glob's matches in walk order. Relative paths are computed against
// searchRoot.
//
// The returned error is non-nil only for a malformed glob spec, which is
// fatal: a broken filter must not silently change the selection set.
// All other problems become warnings.
func Resolve(specs []string, searchRoot string) ([]model.CandidateFile, []string, error) {
	absRoot, err := filepath.Abs(searchRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve search root %q: %w", searchRoot, err)
	}

	var (
		files    []model.CandidateFile
		warnings []string

		// candidates under searchRoot, listed lazily on the first glob
		// spec and shared across all of them.
		rootListing []model.CandidateFile
	)

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		if !strings.ContainsAny(spec, "*?[") {
			resolved, warn := resolveLiteral(spec, absRoot)
			files = append(files, resolved...)
			warnings = append(warnings, warn...)
			continue
		}

		compiled, err := pattern.Compile(spec)
		if err != nil {
			return nil, nil, err
		}

		if rootListing == nil {
			listing, warn, err := walker.Walk(absRoot, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("list search root: %w", err)
			}
			rootListing = listing
			warnings = append(warnings, warn...)
		}

		// Zero matches is not an error: the spec simply contributes
		// an empty set.
		for _, cand := range rootListing {
			if compiled.Matches(cand.RelPath) {
				files = append(files, cand)
			}
		}
	}

	return files, warnings, nil
}

// resolveLiteral handles a non-glob spec: a single file or a directory
// subtree. A missing path yields a model.ErrMissingExtraFile warning.
func resolveLiteral(spec, searchRoot string) ([]model.CandidateFile, []string) {
	abs := spec
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(searchRoot, spec)
	}

	info, err := os.Stat(abs)
	if err != nil {
		warn := fmt.Errorf("%w: %s", model.ErrMissingExtraFile, spec)
		return nil, []string{warn.Error()}
	}

	if !info.IsDir() {
		return []model.CandidateFile{{
			AbsPath: abs,
			RelPath: relativeTo(searchRoot, abs),
		}}, nil
	}

	// Directory spec: contribute the subtree, paths still relative to
	// the search root so the artifact reads naturally.
	sub, warnings, err := walker.Walk(abs, nil)
	if err != nil {
		return nil, []string{fmt.Sprintf("extra directory %s: %v", spec, err)}
	}

	prefix := relativeTo(searchRoot, abs)
	files := make([]model.CandidateFile, 0, len(sub))
	for _, cand := range sub {
		rel := cand.RelPath
		if prefix != "" && prefix != "." {
			rel = prefix + "/" + rel
		}
		files = append(files, model.CandidateFile{AbsPath: cand.AbsPath, RelPath: rel})
	}
	return files, warnings
}

// relativeTo returns abs relative to root in slash form, falling back to
// the basename when no relative form exists (different volume).
func relativeTo(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.Base(abs)
	}
	return filepath.ToSlash(rel)
}
