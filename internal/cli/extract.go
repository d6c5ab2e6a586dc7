// File path: internal/cli/extract.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controlforge/stlab/internal/stlang"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.st>",
	Short: "Extract label declarations and program body from ST source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result := stlang.Extract(string(data))
		if jsonOutput {
			return printJSON(result)
		}
		fmt.Printf("global labels: %d\n", len(result.Program.Globals))
		for _, label := range result.Program.Globals {
			printLabel(label)
		}
		fmt.Printf("local labels: %d\n", len(result.Program.Locals))
		for _, label := range result.Program.Locals {
			printLabel(label)
		}
		for _, skipped := range result.Skipped {
			fmt.Printf("skipped line %d: %s\n", skipped.Line, skipped.Reason)
		}
		fmt.Println("program body:")
		fmt.Println(result.Program.Body)
		return nil
	},
}

func printLabel(label stlang.Label) {
	fmt.Printf("  %s : %s", label.Name, label.DataType)
	if label.InitialValue != "" {
		fmt.Printf(" := %s", label.InitialValue)
	}
	if label.Device != "" {
		fmt.Printf(" [%s]", label.Device)
	}
	if label.Comment != "" {
		fmt.Printf(" // %s", label.Comment)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
