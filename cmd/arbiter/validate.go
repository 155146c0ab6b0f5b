package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"arbiter-hq/arbiter/pkg/rules"
)

var validateFlags struct {
	file string
	dir  string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rule group files",
	Long: `Validate rule group YAML files for syntax and condition errors.

The validate command parses each rule group file and checks that every
rule condition, primary and override alike, parses into an evaluable
expression tree.

Examples:
  # Validate a single file
  arbiter validate --file rules/payments.yaml

  # Validate a directory
  arbiter validate --dir rules/`,
	RunE: validateRules,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "rule group file to validate")
	validateCmd.Flags().StringVarP(&validateFlags.dir, "dir", "d", "", "directory of rule group files")
}

func validateRules(cmd *cobra.Command, args []string) error {
	if validateFlags.file == "" && validateFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if validateFlags.file != "" {
		files = append(files, validateFlags.file)
	}
	if validateFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(validateFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule group files found")
	}

	failed := 0
	for _, file := range files {
		problems := validateRuleFile(file)
		if len(problems) == 0 {
			fmt.Printf("✓ %s\n", file)
			continue
		}
		failed++
		fmt.Printf("✗ %s\n", file)
		for _, p := range problems {
			fmt.Printf("    %s\n", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(files))
	}
	fmt.Printf("%d files validated\n", len(files))
	return nil
}

func validateRuleFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read failed: %v", err)}
	}

	var group rules.Group
	if err := yaml.Unmarshal(data, &group); err != nil {
		return []string{fmt.Sprintf("YAML parse failed: %v", err)}
	}

	var problems []string
	for _, rule := range group.Rules {
		if rule.ID == "" {
			problems = append(problems, fmt.Sprintf("rule %q: missing id", rule.Name))
		}

		if primary := rule.Primary(); !primary.Empty() {
			if _, err := primary.Tree(); err != nil {
				problems = append(problems, fmt.Sprintf("rule %q: primary condition: %v", rule.ID, err))
			}
		}
		for i, override := range rule.Overrides() {
			if override.Empty() {
				continue
			}
			if _, err := override.Tree(); err != nil {
				problems = append(problems, fmt.Sprintf("rule %q: override %d: %v", rule.ID, i, err))
			}
		}
	}

	for _, dp := range group.Datapoints {
		if dp.Name == "" {
			problems = append(problems, "datapoint definition with empty name")
		}
	}

	return problems
}
