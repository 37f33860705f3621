// Package config turns user-facing configuration (rule strings, config
// files, CLI flag values) into the spec lists the packager consumes.
//
// The core never parses command-line syntax itself; this package sits
// between the cobra flag layer and the packager.
package config

import "strings"

// ParseRuleString splits a rule string into extra-file specs and ignore
// patterns. Items are separated by sep with surrounding whitespace
// trimmed; an item prefixed with "!" becomes an ignore pattern (prefix
// stripped), anything else an extra-file spec. Blank items are dropped.
//
// Example: ParseRuleString("Cargo.toml + src + !target", "+") yields
// extras ["Cargo.toml", "src"] and ignores ["target"].
func ParseRuleString(rule, sep string) (extras, ignores []string) {
	if sep == "" {
		sep = "+"
	}

	for _, item := range strings.Split(rule, sep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(item, "!"); ok {
			rest = strings.TrimSpace(rest)
			if rest != "" {
				ignores = append(ignores, rest)
			}
			continue
		}
		extras = append(extras, item)
	}
	return extras, ignores
}

// MergeRuleConfig appends CLI-provided specs after rule-derived ones,
// preserving order within each source. Rule entries come first so later
// CLI flags read as additions.
func MergeRuleConfig(ruleExtras, ruleIgnores, cliExtras, cliIgnores []string) (extras, ignores []string) {
	extras = append(append([]string{}, ruleExtras...), cliExtras...)
	ignores = append(append([]string{}, ruleIgnores...), cliIgnores...)
	return extras, ignores
}
