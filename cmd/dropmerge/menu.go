package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick who plays.
Esc/B after a game ends (or while paused) returns to the menu.
Tab opens the scoreboard.

Examples:
  dropmerge menu
  dropmerge menu --fps 60
  dropmerge menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagWeights, "weights", defaultWeightsPath, "Agent weights file (agent mode)")
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	err := tui.RunSession(tuiOptions(store, true), gameOptions(flagWeights, true), runtimeConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
