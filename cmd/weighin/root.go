// ABOUTME: Root Cobra command for weighin CLI.
// ABOUTME: Handles config/store/service lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/weighin/internal/config"
	"github.com/harperreed/weighin/internal/hybrid"
	"github.com/harperreed/weighin/internal/localstore"
	"github.com/harperreed/weighin/internal/remote"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	store *localstore.Store
	svc   *hybrid.Service

	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "weighin",
	Short: "Group weight-loss leaderboard",
	Long: `Weighin is a CLI tool for a group weight-loss challenge: participants
record weigh-ins and compete on progress toward their goal weight.

Data lives in a local store and, when a remote gateway is configured, is
served from the shared backend with transparent fallback to local when
the backend is unreachable.

QUICK START:

  $ weighin profile add "Alex" 90 80    # Join with baseline and goal weight
  $ weighin weigh <profile-id> 87.5     # Record a weigh-in
  $ weighin board                       # See the standings
  $ weighin board --achievements        # Standings with unlocked badges

DATA COMMANDS:

  $ weighin export                      # Write an xlsx snapshot
  $ weighin import backup.xlsx --yes    # Replace local data from a file
  $ weighin backup --interval 5m        # Periodic xlsx snapshots

CONNECTIVITY:

  $ weighin mode                        # Show online/local status
  $ weighin mode local                  # Pin to local storage
  $ weighin mode online                 # Resume using the remote gateway
  $ weighin watch                       # Follow remote changes live

MCP INTEGRATION:

  Run 'weighin mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "weighin": { "command": "weighin", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Local data is stored under ~/.local/share/weighin. The remote gateway
  URL, API key, and admin password live in
  ~/.config/weighin/config.json.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err = cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}

		gw := remote.NewClient(cfg.RemoteURL, cfg.RemoteKey)
		forced := cfg.ForceLocal || cfg.RemoteURL == ""
		svc = hybrid.New(gw, store, hybrid.WithForcedOffline(forced))

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireAdmin gates destructive commands behind the configured admin
// password. No password configured means no gate.
func requireAdmin() error {
	if cfg.AdminPassword == "" {
		return nil
	}

	given := adminPassword
	if given == "" {
		given = os.Getenv("WEIGHIN_ADMIN_PASSWORD")
	}
	if given != cfg.AdminPassword {
		return fmt.Errorf("admin password required (use --password or WEIGHIN_ADMIN_PASSWORD)")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&adminPassword, "password", "", "admin password for destructive commands")
}
