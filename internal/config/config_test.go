package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRuleString_Basic mirrors the canonical example from the
// command help text.
func TestParseRuleString_Basic(t *testing.T) {
	extras, ignores := ParseRuleString("Cargo.toml + src + !target", "+")
	assert.Equal(t, []string{"Cargo.toml", "src"}, extras)
	assert.Equal(t, []string{"target"}, ignores)
}

// TestParseRuleString_Complex verifies interleaved includes and excludes
// keep their relative order within each list.
func TestParseRuleString_Complex(t *testing.T) {
	extras, ignores := ParseRuleString(
		"Cargo.toml + src + !src/nodes + src/nodes/mod.rs + !src/bin", "+")
	assert.Equal(t, []string{"Cargo.toml", "src", "src/nodes/mod.rs"}, extras)
	assert.Equal(t, []string{"src/nodes", "src/bin"}, ignores)
}

// TestParseRuleString_Whitespace verifies aggressive trimming around
// items and after the "!" marker.
func TestParseRuleString_Whitespace(t *testing.T) {
	extras, ignores := ParseRuleString(
		"  file1.txt  +  !  pattern/*  +  dir/  +  !  *.tmp  ", "+")
	assert.Equal(t, []string{"file1.txt", "dir/"}, extras)
	assert.Equal(t, []string{"pattern/*", "*.tmp"}, ignores)
}

// TestParseRuleString_EmptyItems verifies blank items are dropped.
func TestParseRuleString_EmptyItems(t *testing.T) {
	extras, ignores := ParseRuleString(" + file.txt +  + !pattern + ", "+")
	assert.Equal(t, []string{"file.txt"}, extras)
	assert.Equal(t, []string{"pattern"}, ignores)
}

// TestParseRuleString_CustomSeparator verifies a non-default separator.
func TestParseRuleString_CustomSeparator(t *testing.T) {
	extras, ignores := ParseRuleString("file.txt | src | !target", "|")
	assert.Equal(t, []string{"file.txt", "src"}, extras)
	assert.Equal(t, []string{"target"}, ignores)
}

// TestParseRuleString_OnlyIgnores verifies a rule with no includes.
func TestParseRuleString_OnlyIgnores(t *testing.T) {
	extras, ignores := ParseRuleString("!target + !*.tmp + !node_modules", "+")
	assert.Empty(t, extras)
	assert.Equal(t, []string{"target", "*.tmp", "node_modules"}, ignores)
}

// TestMergeRuleConfig verifies CLI entries append after rule entries.
func TestMergeRuleConfig(t *testing.T) {
	extras, ignores := MergeRuleConfig(
		[]string{"src", "docs"},
		[]string{"target", "*.tmp"},
		[]string{"Cargo.toml"},
		[]string{"node_modules"},
	)
	assert.Equal(t, []string{"src", "docs", "Cargo.toml"}, extras)
	assert.Equal(t, []string{"target", "*.tmp", "node_modules"}, ignores)
}

// TestMergeRuleConfig_Empty verifies merging nothing yields nothing.
func TestMergeRuleConfig_Empty(t *testing.T) {
	extras, ignores := MergeRuleConfig(nil, nil, nil, nil)
	assert.Empty(t, extras)
	assert.Empty(t, ignores)
}

// TestLoadFile_YAML verifies the YAML config format.
func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codepack.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: src
output: snapshot.txt
extra_files:
  - README.md
ignore_patterns:
  - "*.tmp"
  - target/
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.Input)
	assert.Equal(t, "snapshot.txt", cfg.Output)
	assert.Equal(t, []string{"README.md"}, cfg.ExtraFiles)
	assert.Equal(t, []string{"*.tmp", "target/"}, cfg.IgnorePatterns)
}

// TestLoadFile_JSONC verifies comments and trailing commas are tolerated
// in JSON configs.
func TestLoadFile_JSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codepack.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // walk the library sources only
  "input": "lib",
  "output": "lib.txt",
  "ignore_patterns": ["*.bak",],
}`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lib", cfg.Input)
	assert.Equal(t, "lib.txt", cfg.Output)
	assert.Equal(t, []string{"*.bak"}, cfg.IgnorePatterns)
}

// TestLoadFile_Missing verifies a missing config path errors.
func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

// TestFindDefaultFile verifies probe order and the empty result when no
// default config exists.
func TestFindDefaultFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindDefaultFile(dir))

	jsonPath := filepath.Join(dir, "codepack.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))
	assert.Equal(t, jsonPath, FindDefaultFile(dir))

	// A YAML file earlier in the probe order wins.
	ymlPath := filepath.Join(dir, "codepack.yml")
	require.NoError(t, os.WriteFile(ymlPath, []byte("input: ."), 0o644))
	assert.Equal(t, ymlPath, FindDefaultFile(dir))
}

// TestFile_Specs verifies the rule string merges before the explicit
// lists.
func TestFile_Specs(t *testing.T) {
	f := &File{
		Rule:           "src + !target",
		ExtraFiles:     []string{"Cargo.toml"},
		IgnorePatterns: []string{"*.tmp"},
	}

	extras, ignores := f.Specs()
	assert.Equal(t, []string{"src", "Cargo.toml"}, extras)
	assert.Equal(t, []string{"target", "*.tmp"}, ignores)
}
