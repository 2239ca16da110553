package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tactcli/tact/pkg/resolver"
	"github.com/tactcli/tact/pkg/schema"
)

var listAt string

var listCmd = &cobra.Command{
	Use:   "list [tasks.(yaml|toml|json)]",
	Short: "List task entries, their strategies and which variants match now",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listAt, "at", "", "pin the time context to an RFC3339 timestamp instead of the wall clock")
}

func runList(cmd *cobra.Command, args []string) error {
	list, errs := schema.ValidateFile(args[0])
	printValidationWarnings(errs)
	if schema.HasErrors(errs) {
		return printValidationErrors(errs)
	}

	moment, err := momentFromFlag(listAt)
	if err != nil {
		return err
	}

	fmt.Printf("%s — %d task(s) at %s\n", args[0], len(list.Tasks), moment.Now.Format("2006-01-02 15:04:05"))
	for i := range list.Tasks {
		entry := &list.Tasks[i]
		fmt.Printf("\n%d. %s [%s]\n", i+1, entry.Type, entry.Strategy)
		if len(entry.Params) > 0 {
			fmt.Printf("   base params: %d\n", len(entry.Params))
		}
		if len(entry.Variants) == 0 {
			fmt.Printf("   no variants — always resolves with base params\n")
			continue
		}
		for j := range entry.Variants {
			variant := &entry.Variants[j]
			label := "always"
			matched := true
			if variant.Condition != nil {
				label = variant.Condition.String()
				matched, err = resolver.Evaluate(variant.Condition, moment)
				if err != nil {
					return fmt.Errorf("task %d variant %d: %w", i, j, err)
				}
			}
			marker := " "
			if matched {
				marker = "✓"
			}
			fmt.Printf("   %s variant %d: %s (%d param(s))\n", marker, j+1, label, len(variant.Params))
		}
	}
	return nil
}
