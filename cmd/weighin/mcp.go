// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the hybrid data service.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/weighin/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "weighin": {
        "command": "weighin",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_leaderboard     Current standings ranked by progress
  add_profile         Create a participant profile
  add_weight          Record a weigh-in
  get_weight_history  List a participant's weigh-ins
  update_weight       Correct a weigh-in
  delete_weight       Delete a weigh-in
  delete_profile      Delete a profile and its weigh-ins

AVAILABLE RESOURCES:

  weighin://leaderboard   Current standings
  weighin://status        Remote/local data source status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
