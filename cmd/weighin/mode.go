// ABOUTME: CLI command for the data source mode.
// ABOUTME: Shows or switches the persisted forced-offline latch.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [local|online]",
	Short: "Show or switch the data source mode",
	Long: `Show or switch where data is read from and written to.

With no argument, shows the current mode. 'local' pins the tool to the
local store until 'online' switches it back; the setting survives
process restarts. 'online' clears the pin — the remote gateway is then
probed on each operation and local storage is used only as fallback.

EXAMPLES:

  weighin mode            # Show current mode
  weighin mode local      # Work offline
  weighin mode online     # Resume remote usage`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"local", "online"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			showMode()
			return nil
		}

		switch args[0] {
		case "local":
			svc.SwitchMode(true)
			cfg.ForceLocal = true
		case "online":
			if cfg.RemoteURL == "" {
				return fmt.Errorf("no remote gateway configured (set remote_url in %s)", "~/.config/weighin/config.json")
			}
			svc.SwitchMode(false)
			cfg.ForceLocal = false
		default:
			return fmt.Errorf("unknown mode: %s (use local or online)", args[0])
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		showMode()
		return nil
	},
}

func showMode() {
	switch {
	case cfg.ForceLocal:
		color.Yellow("● local (pinned)")
	case cfg.RemoteURL == "":
		color.Yellow("● local (no remote gateway configured)")
	case svc.Online():
		color.Green("● online (%s)", cfg.RemoteURL)
	default:
		fmt.Println("● online preferred, remote not yet probed")
	}
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
