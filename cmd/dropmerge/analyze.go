package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/sessionlog"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

// trendPoints is how many rolling-mean values analyze prints.
const trendPoints = 10

var (
	flagCSV          string
	flagAnalyzeMode  string
	flagAnalyzeLimit int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize finished games",
	Long: `Print score statistics, the highest-tile distribution, board shape
metrics and the score trend over finished games.

Games are read from a session CSV (--csv) or from the scores database.

Examples:
  dropmerge analyze
  dropmerge analyze --mode bot
  dropmerge analyze --csv ~/.dropmerge/sessions.csv`,
	Args: cobra.NoArgs,
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagCSV, "csv", "", "Session CSV to analyze instead of the database")
	analyzeCmd.Flags().StringVar(&flagAnalyzeMode, "mode", "all", "Mode to analyze from the database: human, bot, agent, all")
	analyzeCmd.Flags().IntVar(&flagAnalyzeLimit, "limit", 0, "Only the most recent N games from the database (0 = all)")
}

func runAnalyze(_ *cobra.Command, _ []string) {
	var (
		recs   []sessionlog.Record
		source string
	)

	if flagCSV != "" {
		path := expandHome(flagCSV)
		var skipped int
		var err error
		recs, skipped, err = sessionlog.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if skipped > 0 {
			logger.Warn("skipped malformed rows", "count", skipped)
		}
		source = path
	} else {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
			os.Exit(1)
		}
		recs, err = loadRecords(store, flagAnalyzeMode, flagAnalyzeLimit)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = "mode " + flagAnalyzeMode
	}

	printSummary(source, sessionlog.Summarize(recs))
}

// printSummary renders a summary as styled text and tables.
func printSummary(title string, s sessionlog.Summary) {
	fmt.Println(titleStyle.Render("Summary - " + title))

	if s.Games == 0 {
		fmt.Println(mutedStyle.Render("No games to analyze."))
		return
	}

	stats := newTable("Metric", "Value")
	stats.Row("Games", strconv.Itoa(s.Games))
	stats.Row("Mean score", fmt.Sprintf("%.1f", s.MeanScore))
	stats.Row("Median score", fmt.Sprintf("%.1f", s.MedianScore))
	stats.Row("Std dev", fmt.Sprintf("%.1f", s.StdScore))
	stats.Row("Max score", strconv.Itoa(s.MaxScore))
	stats.Row("Max tile in corner", fmt.Sprintf("%.1f%%", s.CornerPct))
	stats.Row("Mean empty cells", fmt.Sprintf("%.2f", s.MeanEmpty))
	stats.Row("Mean smoothness", fmt.Sprintf("%.2f", s.MeanSmoothness))
	stats.Row("Longest rising run", strconv.Itoa(s.BestIncreasing))
	fmt.Println(stats)

	tiles := newTable("Highest tile", "Games", "Share")
	for _, v := range s.TileValues() {
		n := s.HighestTiles[v]
		tiles.Row(strconv.Itoa(v), strconv.Itoa(n), fmt.Sprintf("%.1f%%", 100*float64(n)/float64(s.Games)))
	}
	fmt.Println(tiles)

	trend := s.RollingMean[max(0, len(s.RollingMean)-trendPoints):]
	points := make([]string, len(trend))
	for i, v := range trend {
		points[i] = fmt.Sprintf("%.0f", v)
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Rolling mean (window %d): %s", s.Window, strings.Join(points, " > "))))
}
