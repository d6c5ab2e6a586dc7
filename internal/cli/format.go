// File path: internal/cli/format.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controlforge/stlab/internal/stlang"
)

var formatCmd = &cobra.Command{
	Use:   "format <program.json>",
	Short: "Render a parsed program (labels plus body) back into ST source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var program stlang.ParsedProgram
		if err := json.Unmarshal(data, &program); err != nil {
			return fmt.Errorf("parse program JSON: %w", err)
		}
		fmt.Print(stlang.Format(program))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
