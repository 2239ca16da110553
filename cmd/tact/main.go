package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tactcli/tact/pkg/schema"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tact",
	Short: "Task-configuration resolution engine",
	Long:  "tact — resolves conditional task configurations into concrete parameter sets and hands them to an automation engine.",
}

func init() {
	rootCmd.AddCommand(validateCmd, runCmd, listCmd, schemaCmd, versionCmd)
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [tasks.(yaml|toml|json)]",
	Short: "Validate a task file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	list, errs := schema.ValidateFile(args[0])
	printValidationWarnings(errs)
	if schema.HasErrors(errs) {
		return printValidationErrors(errs)
	}
	fmt.Printf("✓ %s is valid (%d task(s))\n", args[0], len(list.Tasks))
	return nil
}

func printValidationWarnings(errs []*schema.ValidationError) {
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "    at: %s\n", e.Path)
			}
		}
	}
}

func printValidationErrors(errs []*schema.ValidationError) error {
	count := 0
	for _, e := range errs {
		if e.Severity != "warning" {
			count++
		}
	}
	fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", count)
	i := 0
	for _, e := range errs {
		if e.Severity == "warning" {
			continue
		}
		i++
		fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i, e.Phase, e.Message)
		if e.Path != "" {
			fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
		}
	}
	return fmt.Errorf("validation failed with %d error(s)", count)
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for task files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tact %s (%s)\n", version, commit)
	},
}
