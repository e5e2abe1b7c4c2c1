package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/agent"
	"github.com/vovakirdan/dropmerge/internal/core"
	"github.com/vovakirdan/dropmerge/internal/game"
	"github.com/vovakirdan/dropmerge/internal/platform/tui"
	"github.com/vovakirdan/dropmerge/internal/sessionlog"
)

var (
	flagAutoplayMode string
	flagGames        int
	flagMaxMoves     int
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play games headless with the bot or an agent",
	Long: `Play a batch of games without a UI. Every finished game is stored in
the scores database and appended to the session log, then a summary of the
batch is printed.

Examples:
  dropmerge autoplay --games 100
  dropmerge autoplay --mode agent --weights ./agent.yaml --games 50
  dropmerge autoplay --seed 42 --session-log ./bot.csv`,
	Args: cobra.NoArgs,
	Run:  runAutoplay,
}

func init() {
	autoplayCmd.Flags().StringVar(&flagAutoplayMode, "mode", string(game.ModeBot), "Who plays: bot, agent")
	autoplayCmd.Flags().StringVar(&flagWeights, "weights", defaultWeightsPath, "Agent weights file (agent mode)")
	autoplayCmd.Flags().IntVar(&flagGames, "games", 10, "Number of games to play")
	autoplayCmd.Flags().IntVar(&flagMaxMoves, "max-moves", agent.DefaultMaxMoves, "Stop a game after this many moves")
}

func runAutoplay(_ *cobra.Command, _ []string) {
	mode, err := game.ParseMode(flagAutoplayMode)
	if err == nil && mode == game.ModeHuman {
		err = fmt.Errorf("autoplay needs a bot or agent, not %q", flagAutoplayMode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g, err := game.New(mode, gameOptions(flagWeights, false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	if store != nil {
		if best, err := store.HighScore(g.ID()); err == nil {
			g.SetHighScore(best)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	recs := make([]sessionlog.Record, 0, flagGames)
	for i := range flagGames {
		g.Reset(core.RuntimeConfig{Seed: seed + int64(i)})
		for g.Moves() < flagMaxMoves && g.AutoMove() {
		}

		if err := tui.SaveResult(store, sessionLogPath(), g); err != nil {
			logger.Error("cannot save result", "game", i+1, "error", err)
		}
		recs = append(recs, g.Record())
		snap := g.Snapshot()
		logger.Info("game finished",
			"game", i+1,
			"score", snap.Score,
			"max_tile", snap.MaxTile,
			"moves", snap.Moves,
			"retired", snap.Retired,
			"phase", snap.Phase,
		)
		logger.Debug("final board", "rows", snap.Board)
	}

	fmt.Println()
	printSummary(gameTitle(g.ID()), sessionlog.Summarize(recs))
}
