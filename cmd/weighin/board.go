// ABOUTME: CLI command for the group leaderboard.
// ABOUTME: Ranked standings with optional achievement badges.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/models"
	"github.com/spf13/cobra"
)

var boardAchievements bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"b", "leaderboard"},
	Short:   "Show the leaderboard",
	Long: `Show the group leaderboard, ranked by progress toward goal weight.

Each line shows: RANK  NAME  CURRENT  LOST  PROGRESS

Progress is the share of the baseline-to-goal distance already covered;
the display caps it at 0-100% even when someone overshoots their goal.

EXAMPLES:

  weighin board
  weighin board --achievements    # Include unlocked badges per participant`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := svc.FetchLeaderboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch leaderboard: %w", err)
		}

		if len(board) == 0 {
			fmt.Println("No participants yet.")
			return nil
		}

		if !svc.Online() {
			color.Yellow("⚠ Showing local data (remote unavailable)")
		}

		faint := color.New(color.Faint)
		for i, e := range board {
			rank := fmt.Sprintf("%d.", i+1)
			switch i {
			case 0:
				rank = color.YellowString("🥇")
			case 1:
				rank = color.WhiteString("🥈")
			case 2:
				rank = color.RedString("🥉")
			}

			fmt.Printf("%s %-20s %.1f kg  lost %.1f kg  %s\n",
				rank, e.Name, e.CurrentWeight, e.WeightLost,
				color.GreenString("%.0f%%", clampProgress(e.PercentageToGoal)))

			if boardAchievements {
				history, err := svc.FetchWeightHistory(cmd.Context(), e.ID)
				if err != nil {
					return fmt.Errorf("failed to fetch history for %s: %w", e.Name, err)
				}
				for _, a := range models.Unlocked(e, history) {
					fmt.Printf("   %s %s %s\n", a.Icon, a.Title, faint.Sprint(a.Description))
				}
			}
		}
		return nil
	},
}

// clampProgress caps the displayed percentage at [0, 100]; the ranking
// itself uses the uncapped value.
func clampProgress(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func init() {
	boardCmd.Flags().BoolVar(&boardAchievements, "achievements", false, "show unlocked achievements")
	rootCmd.AddCommand(boardCmd)
}
