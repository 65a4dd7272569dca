// ABOUTME: CLI commands for recording and managing weigh-ins.
// ABOUTME: Add, update, delete, and per-participant history.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/models"
	"github.com/spf13/cobra"
)

var (
	weighAt       string
	weighNewValue string
	weighNewAt    string
)

var weighCmd = &cobra.Command{
	Use:     "weigh <profile-id> <weight>",
	Aliases: []string{"w"},
	Short:   "Record a weigh-in",
	Long: `Record a weigh-in for a participant.

Weights are in kilograms; a comma decimal separator is accepted. The
weigh-in is dated now unless --at is given. Dates cannot be in the
future or more than a year back.

EXAMPLES:

  weighin weigh local_17..._ab 87.5
  weighin weigh local_17..._ab 87,5 --at 2026-03-01
  weighin weigh local_17..._ab 87.5 --at "2026-03-01 08:00"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := parseWeight(args[1])
		if err != nil {
			return err
		}

		var recordedAt time.Time
		if weighAt != "" {
			t, err := parseTime(weighAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", weighAt)
			}
			if err := validateRecordedAt(t); err != nil {
				return err
			}
			recordedAt = t
		}

		w, err := svc.AddWeight(cmd.Context(), args[0], weight, recordedAt)
		if err != nil {
			return fmt.Errorf("failed to record weigh-in: %w", err)
		}

		color.Green("✓ Recorded %.1f kg", w.CurrentWeight)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(w.ID),
			w.RecordedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var weighUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Correct a weigh-in",
	Long: `Correct a recorded weigh-in's value or date.

Only the fields you pass flags for are changed.

EXAMPLES:

  weighin weigh update local_17..._cd --weight 86.9
  weighin weigh update local_17..._cd --at 2026-03-02`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd models.WeightUpdate

		if weighNewValue != "" {
			w, err := parseWeight(weighNewValue)
			if err != nil {
				return err
			}
			upd.CurrentWeight = &w
		}
		if weighNewAt != "" {
			t, err := parseTime(weighNewAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", weighNewAt)
			}
			if err := validateRecordedAt(t); err != nil {
				return err
			}
			upd.RecordedAt = &t
		}
		if upd.IsZero() {
			return fmt.Errorf("nothing to update (use --weight or --at)")
		}

		if err := svc.UpdateWeight(cmd.Context(), args[0], upd); err != nil {
			return fmt.Errorf("failed to update weigh-in: %w", err)
		}

		color.Green("✓ Updated weigh-in %s", args[0])
		return nil
	},
}

var weighDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a weigh-in",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		if err := svc.DeleteWeight(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete weigh-in: %w", err)
		}

		color.Yellow("✗ Deleted weigh-in %s", args[0])
		return nil
	},
}

var weighHistoryCmd = &cobra.Command{
	Use:   "history <profile-id>",
	Short: "Show a participant's weigh-ins",
	Long: `Show a participant's weigh-ins, newest first.

Each line shows: ID  TIMESTAMP  WEIGHT`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := svc.FetchWeightHistory(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}

		if len(history) == 0 {
			fmt.Println("No weigh-ins found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range history {
			fmt.Printf("%s %s %.1f kg\n",
				faint.Sprint(w.ID),
				faint.Sprint(w.RecordedAt.Format("2006-01-02 15:04")),
				w.CurrentWeight)
		}
		return nil
	},
}

func init() {
	weighCmd.Flags().StringVar(&weighAt, "at", "", "timestamp (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	weighUpdateCmd.Flags().StringVar(&weighNewValue, "weight", "", "corrected weight (kg)")
	weighUpdateCmd.Flags().StringVar(&weighNewAt, "at", "", "corrected timestamp")

	weighCmd.AddCommand(weighUpdateCmd)
	weighCmd.AddCommand(weighDeleteCmd)
	weighCmd.AddCommand(weighHistoryCmd)
	rootCmd.AddCommand(weighCmd)
}
