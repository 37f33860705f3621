// This file implements the packaging run behind the root command.
//
// Configuration precedence, lowest to highest:
//  1. config file (codepack.yml / .yaml / .json / .jsonc, or --config)
//  2. rule string (--rule, or the file's rule field)
//  3. explicit flags (-i, -o, -a, --ignore)
//
// The assembled model.PackagerConfig is handed to the packager; this
// layer never walks the tree or tests patterns itself.

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/codepack/internal/config"
	"github.com/shinji-kodama/codepack/internal/display"
	"github.com/shinji-kodama/codepack/internal/model"
	"github.com/shinji-kodama/codepack/internal/packager"
)

// defaultOutputFile is the artifact path used when neither the config
// file nor the -o flag names one.
const defaultOutputFile = "src_code.txt"

// packFlags holds the flag values for the packaging run.
type packFlags struct {
	input         string
	output        string
	add           []string
	ignore        []string
	rule          string
	ruleSeparator string
	configPath    string
}

// runPack assembles the configuration and executes the packaging run.
func runPack(cmd *cobra.Command, flags *packFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	// Step 1: config file, if any.
	file := &config.File{}
	configPath := flags.configPath
	if configPath == "" {
		configPath = config.FindDefaultFile(cwd)
	}
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to load config file", err)
		}
		file = loaded
		VerboseLog("Loaded config file: %s", configPath)
	}

	// Step 2: merge spec sources. File entries first, then the rule
	// string, then explicit flags, so later sources read as additions.
	extras, ignores := file.Specs()
	if flags.rule != "" {
		ruleExtras, ruleIgnores := config.ParseRuleString(flags.rule, flags.ruleSeparator)
		extras, ignores = config.MergeRuleConfig(extras, ignores, ruleExtras, ruleIgnores)
	}
	extras, ignores = config.MergeRuleConfig(extras, ignores, flags.add, flags.ignore)

	// Step 3: scalar settings. A flag changed on the command line beats
	// the config file; otherwise the file value beats the default.
	input := flags.input
	if !cmd.Flags().Changed("input") && file.Input != "" {
		input = file.Input
	}
	output := flags.output
	if !cmd.Flags().Changed("output") && file.Output != "" {
		output = file.Output
	}

	cfg := model.PackagerConfig{
		InputDir:       input,
		OutputFile:     output,
		ExtraFiles:     extras,
		IgnorePatterns: ignores,
		SearchRoot:     cwd,
	}
	VerboseLog("Input directory: %s", cfg.InputDir)
	VerboseLog("Output file: %s", cfg.OutputFile)
	VerboseLog("Extra specs: %v", cfg.ExtraFiles)
	VerboseLog("Ignore patterns: %v", cfg.IgnorePatterns)

	// Step 4: run the pipeline.
	summary, err := packager.Package(cfg)
	if err != nil {
		return err // packager already returns CLIError
	}

	// Step 5: render the summary.
	if IsJSONOutput() {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode summary", err)
		}
		fmt.Println(string(data))
		return nil
	}

	display.NewRenderer(os.Stdout).Summary(summary)
	return nil
}
