package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/platform/tui"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

var (
	flagLimit     int
	flagScoresTUI bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the best finished games for a mode (human, bot, agent),
or for every mode when none is given.

Examples:
  dropmerge scores
  dropmerge scores bot --limit 20
  dropmerge scores --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show per mode")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in the interactive scoreboard")
}

// newTable returns a table in the CLI house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func runScores(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}
	ids, err := modeGameIDs(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresTUI {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	for i, id := range ids {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			return
		}
	}
}

func printScores(store *storage.Store, gameID string) error {
	sessions, err := store.TopSessions(gameID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("High Scores - " + gameTitle(gameID)))

	if len(sessions) == 0 {
		return printScoreEntries(store, gameID)
	}

	t := newTable("Rank", "Score", "Max tile", "Moves", "Date")
	for i, s := range sessions {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(s.FinalScore),
			strconv.Itoa(s.HighestTile),
			strconv.Itoa(s.Moves),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t)

	stats, err := store.GameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Games: %d  Best: %d  Average: %.1f  Best tile: %d",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestTile)))
	return nil
}

// printScoreEntries lists plain scores, saved for games without a session record.
func printScoreEntries(store *storage.Store, gameID string) error {
	entries, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(mutedStyle.Render("No games recorded yet."))
		return nil
	}

	t := newTable("Rank", "Score", "Date")
	for i, e := range entries {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(e.Score), e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println(t)
	return nil
}
