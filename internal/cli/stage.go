// File path: internal/cli/stage.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controlforge/stlab/internal/labels"
	"github.com/controlforge/stlab/internal/ledger"
	"github.com/controlforge/stlab/internal/sqlite"
	"github.com/controlforge/stlab/internal/workflow"
)

var (
	projectID string
	actorID   string
)

func newManager(store *sqlite.Store) *workflow.Manager {
	return workflow.NewManager(store, labels.NewSynchronizer(store), ledger.New(store))
}

var editCmd = &cobra.Command{
	Use:   "edit <stage-id> <file.st>",
	Short: "Apply an edited ST source file to a stage and record the change",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureStage(cmd.Context(), args[0], projectID, ""); err != nil {
			return err
		}
		result, err := newManager(store).EditCode(cmd.Context(), args[0], actorID, string(data))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(result)
		}
		fmt.Printf("stage %s updated to version %s (%d global, %d local labels, %d lines skipped)\n",
			args[0], result.Entry.VersionNumber,
			len(result.Program.Globals), len(result.Program.Locals), len(result.Skipped))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <stage-id>",
	Short: "Record a validation run for a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passed, err := cmd.Flags().GetBool("passed")
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		entry, err := newManager(store).Validate(cmd.Context(), args[0], actorID, passed, nil)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(entry)
		}
		fmt.Printf("stage %s validated, version %s\n", args[0], entry.VersionNumber)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <stage-id>",
	Short: "Show a stage's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		manager := newManager(store)
		summary, err := manager.Summary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(summary)
		}
		fmt.Printf("current version: %s (entries: %d)\n", summary.CurrentVersion, summary.TotalVersions)
		for _, item := range summary.History {
			fmt.Printf("  %-10s %-14s %s\n", item.Version, item.Action, item.Timestamp)
		}
		return nil
	},
}

var exportLabelsCmd = &cobra.Command{
	Use:   "export-labels <stage-id>",
	Short: "Export a stage's labels as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		utf16Out, err := cmd.Flags().GetBool("utf16")
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		code, err := store.StageCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		csvText := labels.ExportCSV(args[0], code.Globals, code.Locals)
		if utf16Out {
			_, err = os.Stdout.Write(labels.EncodeUTF16LE(csvText))
			return err
		}
		fmt.Print(csvText)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{editCmd, validateCmd, historyCmd, exportLabelsCmd} {
		rootCmd.AddCommand(cmd)
	}
	editCmd.Flags().StringVar(&projectID, "project", "default", "project the stage belongs to")
	editCmd.Flags().StringVar(&actorID, "actor", "", "acting user identifier")
	validateCmd.Flags().StringVar(&actorID, "actor", "", "acting user identifier")
	validateCmd.Flags().Bool("passed", true, "whether the validation passed")
	exportLabelsCmd.Flags().Bool("utf16", false, "encode output as UTF-16 LE with BOM")
}
