// Package pattern implements glob-style path matching for the packager.
//
// Patterns are compiled once and reused for every path test, so the
// walker's subtree pruning and the extra-file resolver's expansion share
// identical semantics. Matching always operates on slash-separated paths
// relative to the traversal root, regardless of the host separator.
//
// Supported syntax:
//   - `*`  matches any run of characters within a single path segment
//   - `**` matches zero or more whole segments
//   - `?`  matches exactly one character, never `/`
//   - `[abc]` / `[!abc]` character classes within a segment
//   - a pattern without `/` is also tested against the final path
//     segment alone, so `*.tmp` matches `a/b/c.tmp`
//   - a trailing `/` restricts the pattern to directories
package pattern

import (
	"fmt"
	"path"
	"strings"

	"github.com/shinji-kodama/codepack/internal/model"
)

// Compiled is the immutable compiled form of one glob pattern.
// The zero value matches nothing.
type Compiled struct {
	// source is the original pattern text, kept for error messages
	// and String().
	source string

	// segments is the slash-split pattern. A segment with text "**"
	// matches zero or more whole path segments.
	segments []segment

	// hasSlash reports whether the pattern constrains the full relative
	// path. Patterns without a slash are additionally matched against
	// the basename alone.
	hasSlash bool

	// dirOnly reports whether the pattern had a trailing slash and
	// therefore only matches directories.
	dirOnly bool

	// empty marks a pattern that matches nothing at all.
	empty bool
}

// segment is one precompiled slash-delimited pattern component.
type segment struct {
	text       string
	doubleStar bool // text is exactly "**"
	wildcard   bool // text contains *, ? or a character class
}

// Compile parses a glob pattern into its compiled form.
//
// An empty pattern compiles successfully to a matcher that matches
// nothing. Unbalanced syntax (an unterminated character class) returns
// model.ErrInvalidPattern.
func Compile(source string) (*Compiled, error) {
	p := strings.TrimSpace(source)
	// Windows-style input is tolerated; matching is always slash form.
	p = strings.ReplaceAll(p, `\`, `/`)

	c := &Compiled{source: source}

	p = strings.TrimPrefix(p, "./")
	c.dirOnly = strings.HasSuffix(p, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		c.empty = true
		return c, nil
	}

	if err := validateClasses(p); err != nil {
		return nil, err
	}

	c.hasSlash = strings.Contains(p, "/")
	for _, text := range strings.Split(p, "/") {
		if text == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", model.ErrInvalidPattern, source)
		}
		c.segments = append(c.segments, segment{
			text:       text,
			doubleStar: text == "**",
			wildcard:   strings.ContainsAny(text, "*?["),
		})
	}
	return c, nil
}

// MustCompile is like Compile but panics on error. Intended for
// hard-coded patterns in tests and defaults.
func MustCompile(source string) *Compiled {
	c, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the original pattern text.
func (c *Compiled) String() string {
	return c.source
}

// Matches reports whether the pattern excludes the file at relPath.
//
// A file is matched when the pattern matches the path itself, or when it
// matches any ancestor directory of the path. The ancestor rule makes the
// result set identical whether the walker prunes matched directories
// early or files are filtered after a full walk.
//
// Matches is pure and total: any input yields true or false, never a
// panic or an error.
func (c *Compiled) Matches(relPath string) bool {
	rel := normalize(relPath)
	if c.empty || rel == "" {
		return false
	}

	// Directory-only patterns never match the file itself, only its
	// ancestor directories.
	if !c.dirOnly && c.matchesPath(rel) {
		return true
	}

	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && c.matchesPath(rel[:i]) {
			return true
		}
	}
	return false
}

// MatchesDir reports whether the walker should prune the directory at
// relPath without descending. Directory-only and plain patterns both
// apply here; a pruned directory excludes its whole subtree.
func (c *Compiled) MatchesDir(relPath string) bool {
	rel := normalize(relPath)
	if c.empty || rel == "" {
		return false
	}
	return c.matchesPath(rel)
}

// matchesPath tests the compiled segments against one normalized path,
// including the basename rule for slash-free patterns.
func (c *Compiled) matchesPath(rel string) bool {
	segs := strings.Split(rel, "/")
	if matchSegments(c.segments, segs) {
		return true
	}
	if !c.hasSlash {
		return matchSegment(c.segments[0], segs[len(segs)-1])
	}
	return false
}

// matchSegments matches pattern segments against path segments,
// expanding "**" to zero or more whole segments.
func matchSegments(pat []segment, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}
	if pat[0].doubleStar {
		for i := 0; i <= len(segs); i++ {
			if matchSegments(pat[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	if !matchSegment(pat[0], segs[0]) {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}

// matchSegment matches one pattern segment against one path segment.
// Within a segment "**" degrades to "*".
func matchSegment(p segment, s string) bool {
	if !p.wildcard {
		return p.text == s
	}
	return matchWildcard(p.text, s)
}

// matchWildcard is an iterative wildcard matcher with single-star
// backtracking, extended with ? and [class] support. Both pattern and
// input are single path segments, so `/` never appears.
func matchWildcard(pattern, input string) bool {
	pIdx, sIdx := 0, 0
	starPattern, starInput := -1, 0

	for sIdx < len(input) {
		if pIdx < len(pattern) {
			switch pattern[pIdx] {
			case '*':
				// Collapse consecutive stars, remember the position and
				// let the star match greedily from here.
				for pIdx < len(pattern) && pattern[pIdx] == '*' {
					pIdx++
				}
				starPattern = pIdx
				starInput = sIdx
				continue
			case '?':
				pIdx++
				sIdx++
				continue
			case '[':
				end := findClassEnd(pattern, pIdx)
				if end >= 0 {
					if matchClass(pattern[pIdx+1:end], input[sIdx]) {
						pIdx = end + 1
						sIdx++
						continue
					}
				} else if pattern[pIdx] == input[sIdx] {
					// Unterminated class is rejected at compile time; treat
					// a stray '[' literally for totality.
					pIdx++
					sIdx++
					continue
				}
			default:
				if pattern[pIdx] == input[sIdx] {
					pIdx++
					sIdx++
					continue
				}
			}
		}

		if starPattern >= 0 {
			// Mismatch after a star: give the star one more input byte
			// and retry from the token after it.
			starInput++
			sIdx = starInput
			pIdx = starPattern
			continue
		}
		return false
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}
	return pIdx == len(pattern)
}

// matchClass matches one byte against a character class body
// (the text between the brackets). A leading '!' negates the class.
func matchClass(class string, b byte) bool {
	negate := false
	if strings.HasPrefix(class, "!") {
		negate = true
		class = class[1:]
	}

	matched := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			if class[i] <= b && b <= class[i+2] {
				matched = true
			}
			i += 2
			continue
		}
		if class[i] == b {
			matched = true
		}
	}
	return matched != negate
}

// findClassEnd locates the closing bracket of a character class starting
// at pattern[start]. Returns -1 when the class is unterminated.
func findClassEnd(pattern string, start int) int {
	idx := start + 1
	if idx < len(pattern) && pattern[idx] == '!' {
		idx++
	}
	if idx < len(pattern) && pattern[idx] == ']' {
		// Leading ']' is a literal member of the class.
		idx++
	}
	for ; idx < len(pattern); idx++ {
		if pattern[idx] == ']' {
			return idx
		}
	}
	return -1
}

// validateClasses rejects patterns with an unterminated character class.
func validateClasses(p string) error {
	for i := 0; i < len(p); i++ {
		if p[i] != '[' {
			continue
		}
		end := findClassEnd(p, i)
		if end < 0 {
			return fmt.Errorf("%w: unterminated character class in %q", model.ErrInvalidPattern, p)
		}
		i = end
	}
	return nil
}

// normalize converts a candidate path to clean slash-separated relative
// form so pattern tests behave identically on every platform.
func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, `\`) {
		raw = strings.ReplaceAll(raw, `\`, `/`)
	}
	raw = strings.TrimPrefix(raw, "./")
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return ""
	}

	cleaned := path.Clean(raw)
	if cleaned == "." {
		return ""
	}
	return strings.TrimSuffix(cleaned, "/")
}

// CompileAll compiles a list of patterns, failing on the first invalid
// one. The returned slice preserves input order.
func CompileAll(sources []string) ([]*Compiled, error) {
	compiled := make([]*Compiled, 0, len(sources))
	for _, src := range sources {
		c, err := Compile(src)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

// MatchesAny reports whether any compiled pattern matches the file path.
func MatchesAny(patterns []*Compiled, relPath string) bool {
	for _, p := range patterns {
		if p.Matches(relPath) {
			return true
		}
	}
	return false
}

// MatchesAnyDir reports whether any compiled pattern prunes the
// directory path.
func MatchesAnyDir(patterns []*Compiled, relPath string) bool {
	for _, p := range patterns {
		if p.MatchesDir(relPath) {
			return true
		}
	}
	return false
}
