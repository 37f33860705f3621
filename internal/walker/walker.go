// Package walker enumerates candidate files under a root directory.
//
// The walk is a depth-first pre-order traversal with entries sorted
// lexicographically at every level, so two runs over an unchanged tree
// produce the same ordering. That determinism is the key contract: the
// artifact built from the walk must be byte-for-byte reproducible.
//
// Ignore patterns are consulted during the walk. A matched directory is
// pruned without descending, which is an optimization only: the selected
// file set is identical to filtering after a full walk.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/shinji-kodama/codepack/internal/model"
	"github.com/shinji-kodama/codepack/internal/pattern"
)

// Walk traverses root and returns the files that survive the ignore
// patterns, in deterministic order, together with non-fatal warnings
// collected along the way.
//
// Walk fails only when root does not exist or is not a directory; that
// failure is fatal and surfaced to the caller. Per-entry problems
// (permission errors, unreadable subdirectories, symlinks that cannot be
// resolved) become warnings and the affected entry is skipped.
func Walk(root string, ignore []*pattern.Compiled) ([]model.CandidateFile, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("input directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("input path %q is not a directory", root)
	}

	w := &walkState{root: absRoot, ignore: ignore}
	w.walkDir(absRoot, "")
	return w.files, w.warnings, nil
}

// walkState accumulates results across the recursive descent.
type walkState struct {
	root     string
	ignore   []*pattern.Compiled
	files    []model.CandidateFile
	warnings []string
}

// walkDir processes one directory. rel is the slash-separated path of
// dir relative to the root; empty for the root itself.
func (w *walkState) walkDir(dir, rel string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directory below the root is non-fatal; record and
		// move on. The root itself was already validated by Walk.
		w.warnings = append(w.warnings, fmt.Sprintf("cannot list %s: %v", dir, err))
		return
	}

	// os.ReadDir returns entries sorted by filename, but the ordering
	// guarantee is load-bearing here, so enforce it explicitly.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		entryAbs := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if pattern.MatchesAnyDir(w.ignore, entryRel) {
				continue
			}
			w.walkDir(entryAbs, entryRel)
			continue
		}

		if pattern.MatchesAny(w.ignore, entryRel) {
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			// Symlinks are never traversed as directories, to avoid
			// cycles. A link resolving to a regular file is packaged as
			// that file; anything else is skipped with a warning.
			target, err := os.Stat(entryAbs)
			if err != nil {
				w.warnings = append(w.warnings, fmt.Sprintf("cannot resolve symlink %s: %v", entryRel, err))
				continue
			}
			if !target.Mode().IsRegular() {
				w.warnings = append(w.warnings, fmt.Sprintf("skipping symlink to non-regular file: %s", entryRel))
				continue
			}
		} else if !entry.Type().IsRegular() {
			// Sockets, devices, FIFOs: nothing sensible to embed.
			w.warnings = append(w.warnings, fmt.Sprintf("skipping non-regular file: %s", entryRel))
			continue
		}

		w.files = append(w.files, model.CandidateFile{
			AbsPath: entryAbs,
			RelPath: entryRel,
		})
	}
}
