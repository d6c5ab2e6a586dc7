// File path: internal/cli/diff.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controlforge/stlab/internal/textdiff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Print a unified diff between two text files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldData, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		newData, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		fmt.Print(textdiff.Unified(string(oldData), string(newData)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
