// Package cli implements the cobra-based command line for codepack.
//
// codepack is a single-purpose tool, so the root command itself performs
// the packaging run; there are no subcommands beyond cobra's built-in
// help and version. This file defines the root command, global flags,
// and exit-code handling; the run logic lives in pack.go.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/codepack/internal/model"
)

// Global flag variables bound to cobra persistent flags.
var (
	// jsonOutput controls whether the run summary is printed as JSON
	// for machine consumption instead of human-readable text.
	jsonOutput bool

	// verbose enables detailed progress output on stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	flags := &packFlags{}

	rootCmd := &cobra.Command{
		Use:   "codepack",
		Short: "Package a source tree into a single annotated text file",
		Long: `codepack walks a directory tree, selects files according to include and
ignore glob rules, and concatenates their contents into one annotated
text artifact: a single-file snapshot of a codebase, suitable for
review or for feeding into another tool.

Examples:
  codepack -i . -o snapshot.txt --ignore 'target/*' --ignore '*.tmp'
  codepack --rule "Cargo.toml + src + !target"
  codepack -a README.md -a 'docs/*.md'`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output the run summary in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVarP(&flags.input, "input", "i", ".", "Input directory path")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", defaultOutputFile, "Output file path")
	rootCmd.Flags().StringArrayVarP(&flags.add, "add", "a", nil, "Extra files to include (literal paths or glob patterns, repeatable)")
	rootCmd.Flags().StringArrayVar(&flags.ignore, "ignore", nil, "Ignore files/directories matching pattern (repeatable)")
	rootCmd.Flags().StringVar(&flags.rule, "rule", "", `Rule string for including/excluding files (e.g. "Cargo.toml + src + !target")`)
	rootCmd.Flags().StringVar(&flags.ruleSeparator, "rule-separator", "+", "Separator used in the rule string")
	rootCmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path (default: codepack.{yml,yaml,json,jsonc} in the working directory)")

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
