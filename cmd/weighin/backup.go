// ABOUTME: CLI command for periodic xlsx backups.
// ABOUTME: Timer loop writing timestamped workbooks until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/excel"
	"github.com/spf13/cobra"
)

var (
	backupInterval time.Duration
	backupDir      string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write periodic xlsx backups",
	Long: `Write an xlsx backup immediately, then again on every interval tick
until interrupted with Ctrl+C.

Each backup is a full export named weigh-in-data-<date>.xlsx; a backup
taken on the same day overwrites that day's file.

EXAMPLES:

  weighin backup                        # One backup every 5 minutes
  weighin backup --interval 1h          # Hourly
  weighin backup --dir ~/backups        # Into a specific directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backupInterval <= 0 {
			return fmt.Errorf("interval must be positive")
		}

		dir := backupDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create backup dir: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := writeBackup(dir); err != nil {
			return err
		}

		ticker := time.NewTicker(backupInterval)
		defer ticker.Stop()

		fmt.Printf("Backing up every %s to %s (Ctrl+C to stop)\n", backupInterval, dir)
		for {
			select {
			case <-ctx.Done():
				fmt.Println("Stopped.")
				return nil
			case <-ticker.C:
				if err := writeBackup(dir); err != nil {
					// keep the loop alive through transient failures
					color.Red("backup failed: %v", err)
				}
			}
		}
	},
}

func writeBackup(dir string) error {
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

	path := filepath.Join(dir, excel.Filename(time.Now()))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	color.Green("✓ Backed up to %s", path)
	return nil
}

func init() {
	backupCmd.Flags().DurationVar(&backupInterval, "interval", 5*time.Minute, "time between backups")
	backupCmd.Flags().StringVar(&backupDir, "dir", "", "backup directory (default: current directory)")
	rootCmd.AddCommand(backupCmd)
}
