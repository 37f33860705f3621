package packager

import (
	"bytes"
	"strings"
)

// MarkerPrefix starts every path-marker line in the artifact. Ten
// right-angle brackets keep it visually distinct from source content
// (git conflict markers use seven characters), and the parser treats a
// line with this prefix as the start of a new file block.
const MarkerPrefix = ">>>>>>>>>> "

// Block is one (relative path, content) pair recovered from an artifact.
type Block struct {
	Path    string
	Content []byte
}

// Serialize renders one file into its artifact block:
//
//	>>>>>>>>>> rel/path
//	<content, byte-for-byte>
//	<blank line>
//
// Content is never re-encoded and line endings are preserved. The single
// exception is a missing final newline, which is added so the following
// marker stays on its own line; ParseArtifact therefore recovers content
// exactly for newline-terminated files.
func Serialize(relPath string, content []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(MarkerPrefix) + len(relPath) + len(content) + 2)

	buf.WriteString(MarkerPrefix)
	buf.WriteString(relPath)
	buf.WriteByte('\n')
	buf.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// ParseArtifact splits a whole artifact back into its file blocks.
// Splitting happens on marker lines only; everything between two markers,
// minus the block's trailing blank line, is the file content. This is the
// round-trip counterpart of Serialize.
func ParseArtifact(artifact []byte) []Block {
	var blocks []Block

	lines := bytes.SplitAfter(artifact, []byte("\n"))
	var current *Block
	var content bytes.Buffer

	flush := func() {
		if current == nil {
			return
		}
		raw := content.Bytes()
		// Drop the trailing blank line appended by Serialize.
		raw = bytes.TrimSuffix(raw, []byte("\n"))
		current.Content = append([]byte(nil), raw...)
		blocks = append(blocks, *current)
		current = nil
		content.Reset()
	}

	for _, line := range lines {
		text := strings.TrimSuffix(string(line), "\n")
		if strings.HasPrefix(text, MarkerPrefix) {
			flush()
			current = &Block{Path: strings.TrimPrefix(text, MarkerPrefix)}
			continue
		}
		if current != nil {
			content.Write(line)
		}
	}
	flush()

	return blocks
}
