// Tests for the configuration assembly behind the root command: the
// precedence chain config file < rule string < explicit flags, exercised
// by executing the real cobra command against a temp working directory.

package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/codepack/internal/packager"
)

// chdir switches the working directory for the test, restoring the
// original on cleanup. (t.Chdir needs Go 1.24+; this toolchain is older.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

// execute runs the root command with args in the current directory.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

// artifactPaths parses the artifact at path into its block paths.
func artifactPaths(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	blocks := packager.ParseArtifact(data)
	paths := make([]string, 0, len(blocks))
	for _, b := range blocks {
		paths = append(paths, b.Path)
	}
	return paths
}

// TestRunPack_ConfigFileDefaults verifies a default config file in the
// working directory drives the run when no flags are given.
func TestRunPack_ConfigFileDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeTree(t, dir, map[string]string{
		"codepack.yml": "input: src\noutput: from_config.txt\nignore_patterns:\n  - \"*.tmp\"\n",
		"src/main.go":  "package main\n",
		"src/junk.tmp": "scratch\n",
	})

	require.NoError(t, execute(t))

	assert.Equal(t, []string{"main.go"}, artifactPaths(t, filepath.Join(dir, "from_config.txt")))
}

// TestRunPack_FlagsOverrideConfigFile verifies explicit -i/-o flags beat
// the config file's scalars while list settings from both sources merge.
func TestRunPack_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeTree(t, dir, map[string]string{
		"codepack.yml":    "input: src\noutput: from_config.txt\nignore_patterns:\n  - \"*.tmp\"\n",
		"src/main.go":     "package main\n",
		"other/app.go":    "package app\n",
		"other/debug.log": "noise\n",
		"other/tool.tmp":  "scratch\n",
	})

	require.NoError(t, execute(t, "-i", "other", "-o", "from_flag.txt", "--ignore", "*.log"))

	// Flag scalars win; the config file's ignore list still applies
	// alongside the flag's.
	assert.Equal(t, []string{"app.go"}, artifactPaths(t, filepath.Join(dir, "from_flag.txt")))
	assert.NoFileExists(t, filepath.Join(dir, "from_config.txt"))
}

// TestRunPack_RuleAndFlagsMerge verifies rule-string entries come before
// flag entries in the assembled extra list, and that rule ignores apply.
func TestRunPack_RuleAndFlagsMerge(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeTree(t, dir, map[string]string{
		"src/main.go":  "package main\n",
		"src/temp.tmp": "scratch\n",
		"notes.txt":    "notes\n",
		"docs/a.md":    "# a\n",
	})

	require.NoError(t, execute(t,
		"-i", "src",
		"-o", "out.txt",
		"--rule", "notes.txt + !*.tmp",
		"-a", "docs/a.md",
	))

	assert.Equal(t, []string{"main.go", "notes.txt", "docs/a.md"},
		artifactPaths(t, filepath.Join(dir, "out.txt")))
}

// TestRunPack_ExplicitConfigPath verifies --config loads a file outside
// the default probe set, including JSONC with comments.
func TestRunPack_ExplicitConfigPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeTree(t, dir, map[string]string{
		"custom.jsonc": "{\n  // library sources only\n  \"input\": \"lib\",\n  \"output\": \"lib.txt\",\n}\n",
		"lib/a.go":     "package lib\n",
		"src/b.go":     "package src\n",
	})

	require.NoError(t, execute(t, "--config", "custom.jsonc"))

	assert.Equal(t, []string{"a.go"}, artifactPaths(t, filepath.Join(dir, "lib.txt")))
}
