package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/game"
	"github.com/vovakirdan/dropmerge/internal/platform/tui"
	"github.com/vovakirdan/dropmerge/internal/registry"
)

const defaultWeightsPath = "~/.dropmerge/agent.yaml"

var (
	flagPlayMode string
	flagWeights  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game in the terminal.

Modes:
  human  - You pick the column
  bot    - The heuristic bot plays, you watch
  agent  - A trained agent plays, using --weights

Controls:
  Left/Right, A/D  - Aim
  Space/Enter      - Drop into the aimed column
  1-9              - Drop straight into a column
  ?                - Show the bot's column ranking
  P                - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Examples:
  dropmerge play
  dropmerge play --mode bot --fps 60
  dropmerge play --mode agent --weights ./agent.yaml
  dropmerge play --difficulty hard --config ./wide-board.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayMode, "mode", string(game.ModeHuman), "Who plays: human, bot, agent")
	playCmd.Flags().StringVar(&flagWeights, "weights", defaultWeightsPath, "Agent weights file (agent mode)")
}

func runPlay(_ *cobra.Command, _ []string) {
	mode, err := game.ParseMode(flagPlayMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g, err := registry.Create(game.GameID(mode), gameOptions(flagWeights, true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	runErr := tui.Run(g, tuiOptions(store, true), runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
