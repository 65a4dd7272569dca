// ABOUTME: CLI commands for exporting and importing xlsx snapshots.
// ABOUTME: Export writes a workbook; import destructively replaces local data.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/excel"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	importYes    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to an xlsx workbook",
	Long: `Export all local data to an xlsx workbook with three sheets:
Profiles, Weight History, and a derived Leaderboard.

The default filename is weigh-in-data-<date>.xlsx in the current
directory.

EXAMPLES:

  weighin export                    # weigh-in-data-2026-03-09.xlsx
  weighin export -o snapshot.xlsx   # Explicit filename`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := store.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to read profiles: %w", err)
		}
		weights, err := store.ListWeights()
		if err != nil {
			return fmt.Errorf("failed to read weights: %w", err)
		}

		data, err := excel.Export(profiles, weights)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := exportOutput
		if out == "" {
			out = excel.Filename(time.Now())
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		color.Green("✓ Exported %d profiles, %d weigh-ins to %s",
			len(profiles), len(weights), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace local data from an xlsx workbook",
	Long: `Import data from a previously exported xlsx workbook.

This REPLACES the entire local store: existing profiles and weigh-ins
are cleared before the imported collections are written. Rows without
an ID get a fresh local one. There is no merge and no undo, so --yes
is required.

EXAMPLES:

  weighin import backup.xlsx --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		if !importYes {
			return fmt.Errorf("import replaces all local data; pass --yes to confirm")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		result, err := excel.Import(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		if err := store.ReplaceAll(result.Profiles, result.Weights); err != nil {
			return fmt.Errorf("failed to replace local data: %w", err)
		}

		color.Green("✓ Imported %d profiles, %d weigh-ins from %s",
			len(result.Profiles), len(result.Weights), args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: weigh-in-data-<date>.xlsx)")
	importCmd.Flags().BoolVar(&importYes, "yes", false, "confirm destructive replace")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
