// File path: internal/cli/root.go

// Package cli implements the stlab command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/controlforge/stlab/internal/common"
	"github.com/controlforge/stlab/internal/sqlite"
)

var (
	jsonOutput  bool
	catalogPath string

	rootCmd = &cobra.Command{
		Use:   "stlab",
		Short: "stlab - Structured Text label model and version ledger",
		Long: `stlab maintains the label model of IEC 61131-3 Structured Text
programs: it extracts global and local variable declarations from ST
source, renders them back, and tracks every edit as a semantically
versioned, diffable history entry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				common.Logger().Debug("cli: .env file not loaded", "error", err)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "path to the SQLite catalog database")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func openStore() (*sqlite.Store, error) {
	store, err := sqlite.Open(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return store, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
