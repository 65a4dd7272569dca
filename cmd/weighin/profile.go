// ABOUTME: CLI commands for managing participant profiles.
// ABOUTME: Add, update, delete, and list profiles.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/models"
	"github.com/spf13/cobra"
)

var (
	profileUpdateName     string
	profileUpdateBaseline string
	profileUpdateGoal     string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Manage participant profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name> <baseline-weight> <goal-weight>",
	Short: "Add a participant",
	Long: `Add a participant with a baseline weight and a goal weight.

Weights are in kilograms; a comma decimal separator is accepted.

EXAMPLES:

  weighin profile add "Alex" 90 80
  weighin profile add "Sam O'Brien" 82,5 75`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := validateName(args[0])
		if err != nil {
			return err
		}
		if err := checkNameTaken(cmd.Context(), name, ""); err != nil {
			return err
		}
		baseline, err := parseWeight(args[1])
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		goal, err := parseWeight(args[2])
		if err != nil {
			return fmt.Errorf("goal: %w", err)
		}

		p, err := svc.AddProfile(cmd.Context(), name, baseline, goal)
		if err != nil {
			return fmt.Errorf("failed to add profile: %w", err)
		}

		color.Green("✓ Added %s", p.Name)
		fmt.Printf("  %s %.1f kg → %.1f kg goal\n",
			color.New(color.Faint).Sprint(p.ID),
			p.BaselineWeight, p.GoalWeight)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a participant",
	Long: `Update a participant's name, baseline weight, or goal weight.

Only the fields you pass flags for are changed.

EXAMPLES:

  weighin profile update local_17..._ab --name "Alexandra"
  weighin profile update local_17..._ab --goal 78`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd models.ProfileUpdate

		if profileUpdateName != "" {
			name, err := validateName(profileUpdateName)
			if err != nil {
				return err
			}
			if err := checkNameTaken(cmd.Context(), name, args[0]); err != nil {
				return err
			}
			upd.Name = &name
		}
		if profileUpdateBaseline != "" {
			w, err := parseWeight(profileUpdateBaseline)
			if err != nil {
				return fmt.Errorf("baseline: %w", err)
			}
			upd.BaselineWeight = &w
		}
		if profileUpdateGoal != "" {
			w, err := parseWeight(profileUpdateGoal)
			if err != nil {
				return fmt.Errorf("goal: %w", err)
			}
			upd.GoalWeight = &w
		}
		if upd.IsZero() {
			return fmt.Errorf("nothing to update (use --name, --baseline, or --goal)")
		}

		if err := svc.UpdateProfile(cmd.Context(), args[0], upd); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		color.Green("✓ Updated profile %s", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a participant and their weigh-ins",
	Long: `Delete a participant profile. All of the participant's weigh-ins are
deleted with it.

CAUTION:

  This permanently deletes the profile and its history. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		if err := svc.DeleteProfile(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		color.Yellow("✗ Deleted profile %s and its weigh-ins", args[0])
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List participants",
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := svc.FetchLeaderboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		if len(board) == 0 {
			fmt.Println("No participants yet.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range board {
			fmt.Printf("%s %s  %.1f kg → %.1f kg goal\n",
				faint.Sprint(e.ID),
				e.Name, e.BaselineWeight, e.GoalWeight)
		}
		return nil
	},
}

// checkNameTaken enforces case-insensitive name uniqueness. exceptID
// lets an update keep its own name.
func checkNameTaken(ctx context.Context, name, exceptID string) error {
	board, err := svc.FetchLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing names: %w", err)
	}
	for _, e := range board {
		if e.ID != exceptID && strings.EqualFold(e.Name, name) {
			return fmt.Errorf("the name %q is already taken", name)
		}
	}
	return nil
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileUpdateName, "name", "", "new name")
	profileUpdateCmd.Flags().StringVar(&profileUpdateBaseline, "baseline", "", "new baseline weight (kg)")
	profileUpdateCmd.Flags().StringVar(&profileUpdateGoal, "goal", "", "new goal weight (kg)")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
