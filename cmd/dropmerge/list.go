package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List player modes",
	Long: `Shows every registered mode with its record from the scores database.
Each mode keeps its own high scores.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	// Stats are optional; the list works without a database.
	var stats map[string]*storage.GameStats
	if store := openStore(); store != nil {
		all, err := store.AllGameStats()
		if err != nil {
			logger.Warn("cannot load stats", "error", err)
		}
		stats = all
		store.Close()
	}

	t := newTable("ID", "Title", "Games", "Best", "Best tile")
	for _, g := range games {
		played, best, tile := "-", "-", "-"
		if st, ok := stats[g.ID]; ok {
			played = strconv.Itoa(st.GamesCount)
			best = strconv.Itoa(st.HighScore)
			tile = strconv.Itoa(st.BestTile)
		}
		t.Row(g.ID, g.Title, played, best, tile)
	}
	fmt.Println(t)

	fmt.Println()
	fmt.Println("Run 'dropmerge play --mode <human|bot|agent>' to play.")
}
