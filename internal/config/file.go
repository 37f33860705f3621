package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration format. All fields are optional;
// explicit CLI flags override anything set here.
type File struct {
	// Input is the directory to walk.
	Input string `yaml:"input" json:"input"`

	// Output is the artifact path.
	Output string `yaml:"output" json:"output"`

	// ExtraFiles lists extra include specs (literals or globs).
	ExtraFiles []string `yaml:"extra_files" json:"extra_files"`

	// IgnorePatterns lists glob patterns to exclude.
	IgnorePatterns []string `yaml:"ignore_patterns" json:"ignore_patterns"`

	// Rule is an optional rule string, parsed with RuleSeparator and
	// merged before the explicit lists above.
	Rule string `yaml:"rule" json:"rule"`

	// RuleSeparator separates items in Rule. Defaults to "+".
	RuleSeparator string `yaml:"rule_separator" json:"rule_separator"`
}

// DefaultFileNames are the config files probed, in order, when no
// --config flag is given.
var DefaultFileNames = []string{
	"codepack.yml",
	"codepack.yaml",
	"codepack.json",
	"codepack.jsonc",
}

// LoadFile reads a config file, choosing the parser by extension:
// YAML for .yml/.yaml, JSONC for everything else. JSONC support means a
// plain-JSON config with comments still parses, mirroring how editor
// config files are commonly written.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		// Strip comments and trailing commas, then parse as plain JSON.
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// FindDefaultFile returns the first default config file that exists in
// dir, or empty string when none does.
func FindDefaultFile(dir string) string {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Specs resolves the file's rule string and explicit lists into final
// extra and ignore spec lists, rule entries first.
func (f *File) Specs() (extras, ignores []string) {
	var ruleExtras, ruleIgnores []string
	if f.Rule != "" {
		ruleExtras, ruleIgnores = ParseRuleString(f.Rule, f.RuleSeparator)
	}
	return MergeRuleConfig(ruleExtras, ruleIgnores, f.ExtraFiles, f.IgnorePatterns)
}
