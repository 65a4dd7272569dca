// ABOUTME: CLI command for following remote changes live.
// ABOUTME: Subscribes to the change feed and re-renders the board per event.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/weighin/internal/remote"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow remote changes live",
	Long: `Subscribe to the remote gateway's change feed and reprint the
leaderboard whenever another device writes. Requires an online remote;
stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := printBoard(ctx); err != nil {
			return err
		}

		events := make(chan remote.Change, 16)
		sub, err := svc.Subscribe(ctx, func(ch remote.Change) {
			select {
			case events <- ch:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		defer sub.Close()

		fmt.Println("Watching for changes (Ctrl+C to stop)...")
		for {
			select {
			case <-ctx.Done():
				fmt.Println("Stopped.")
				return nil
			case ch := <-events:
				color.New(color.Faint).Printf("[%s %s]\n", ch.Table, ch.Event)
				if err := printBoard(ctx); err != nil {
					color.Red("refresh failed: %v", err)
				}
			}
		}
	},
}

func printBoard(ctx context.Context) error {
	board, err := svc.FetchLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	if len(board) == 0 {
		fmt.Println("No participants yet.")
		return nil
	}
	for i, e := range board {
		fmt.Printf("%d. %-20s %.1f kg  lost %.1f kg  %.0f%%\n",
			i+1, e.Name, e.CurrentWeight, e.WeightLost, clampProgress(e.PercentageToGoal))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
