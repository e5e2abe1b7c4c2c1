package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/sessionlog"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

var (
	flagExportMode  string
	flagExportLimit int
	flagExportOut   string
	flagClearMode   string
	flagListMode    string
	flagListLimit   int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage finished games stored in the database",
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export finished games as session CSV",
	Long: `Write stored games in the session log CSV format, oldest first.
The output can be read back by 'dropmerge analyze --csv'.

Examples:
  dropmerge sessions export > sessions.csv
  dropmerge sessions export --mode agent --limit 100 --out agent.csv`,
	Args: cobra.NoArgs,
	Run:  runSessionsExport,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent finished games with their IDs",
	Args:  cobra.NoArgs,
	Run:   runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the final board of a stored game",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsShow,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored scores and games for a mode",
	Args:  cobra.NoArgs,
	Run:   runSessionsClear,
}

func init() {
	sessionsExportCmd.Flags().StringVar(&flagExportMode, "mode", "all", "Mode to export: human, bot, agent, all")
	sessionsExportCmd.Flags().IntVar(&flagExportLimit, "limit", 0, "Only the most recent N games (0 = all)")
	sessionsExportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "-", "Output file (- for stdout)")

	sessionsListCmd.Flags().StringVar(&flagListMode, "mode", "all", "Mode to list: human, bot, agent, all")
	sessionsListCmd.Flags().IntVar(&flagListLimit, "limit", 20, "Number of games to show")

	sessionsClearCmd.Flags().StringVar(&flagClearMode, "mode", "", "Mode to clear: human, bot, agent, all")
	//nolint:errcheck // The flag is registered just above
	sessionsClearCmd.MarkFlagRequired("mode")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}

// modeGameID returns the single game ID for mode, or "" for every mode.
func modeGameID(mode string) (string, error) {
	if mode == "" || mode == "all" {
		return "", nil
	}
	ids, err := modeGameIDs(mode)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// loadRecords reads stored games for mode as session records, oldest first.
// Rows whose grid cannot be parsed are skipped with a warning.
func loadRecords(store *storage.Store, mode string, limit int) ([]sessionlog.Record, error) {
	gameID, err := modeGameID(mode)
	if err != nil {
		return nil, err
	}

	sessions, err := store.Sessions(gameID, limit)
	if err != nil {
		return nil, err
	}

	recs := make([]sessionlog.Record, 0, len(sessions))
	for _, s := range sessions {
		rec, err := s.Record()
		if err != nil {
			logger.Warn("skipping session", "id", s.ID, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func runSessionsExport(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	recs, err := loadRecords(store, flagExportMode, flagExportLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	var w io.Writer = os.Stdout
	if flagExportOut != "-" {
		f, err := os.Create(expandHome(flagExportOut))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		defer f.Close()
		w = f
	}

	if err := sessionlog.Write(w, recs); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		return
	}
	logger.Info("exported sessions", "count", len(recs), "out", flagExportOut)
}

func runSessionsClear(_ *cobra.Command, _ []string) {
	ids, err := modeGameIDs(flagClearMode)
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

	for _, id := range ids {
		if err := store.ClearScores(id); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing %s: %v\n", id, err)
			return
		}
		fmt.Printf("Cleared %s\n", gameTitle(id))
	}
}

func runSessionsList(_ *cobra.Command, _ []string) {
	gameID, err := modeGameID(flagListMode)
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

	sessions, err := store.Sessions(gameID, flagListLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		fmt.Println(mutedStyle.Render("No games recorded yet."))
		return
	}

	t := newTable("ID", "Mode", "Score", "Max tile", "Moves", "Date")
	for _, s := range sessions {
		t.Row(
			s.ID,
			s.Mode,
			strconv.Itoa(s.FinalScore),
			strconv.Itoa(s.HighestTile),
			strconv.Itoa(s.Moves),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t)
}

func runSessionsShow(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sess, err := store.SessionByID(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if sess == nil {
		fmt.Fprintf(os.Stderr, "No game with ID %s\n", args[0])
		return
	}

	rec, err := sess.Record()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	board, err := rec.Board()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Println(titleStyle.Render(gameTitle(sess.GameID) + " - " + sess.CreatedAt.Local().Format("2006-01-02 15:04")))
	fmt.Printf("Score %d  High %d  Max tile %d  Moves %d\n", sess.FinalScore, sess.HighScore, sess.HighestTile, sess.Moves)

	headers := make([]string, board.Width())
	for c := range headers {
		headers[c] = strconv.Itoa(c + 1)
	}
	t := newTable(headers...)
	for _, row := range board.Rows() {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = "."
			if v != 0 {
				cells[c] = strconv.Itoa(v)
			}
		}
		t.Row(cells...)
	}
	fmt.Println(t)
}
