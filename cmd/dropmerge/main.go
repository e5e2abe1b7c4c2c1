// dropmerge is a drop-and-merge tile puzzle for the terminal, with a
// heuristic bot, trainable agents and offline session analysis.
//
// Usage:
//
//	dropmerge list                 - List player modes
//	dropmerge play                 - Play in the terminal
//	dropmerge menu                 - Pick a mode interactively
//	dropmerge autoplay             - Run bot or agent games headless
//	dropmerge train                - Train an agent
//	dropmerge scores               - Show high scores
//	dropmerge sessions export      - Export finished games as CSV
//	dropmerge analyze              - Summarize finished games
//	dropmerge serve                - Start SSH server for remote play
//	dropmerge config               - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Game configuration YAML
//	--difficulty <name>  - Spawn preset: easy, normal, hard
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.dropmerge/scores.db)
//	--session-log <path> - CSV file finished games are appended to
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file (needed to see logs while playing)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagSessionLog string
	flagLogLevel   string
	flagLogFile    string
)

var (
	// Set by setup before any command runs.
	appConfig config.Config
	logger    *log.Logger
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dropmerge",
	Short: "Drop Merge - a tile merging puzzle in your terminal",
	Long: `Drop Merge is a column puzzle: pick a column, the next tile falls in,
and equal neighbours merge into bigger powers of two.

Available commands:
  list      - Show player modes
  play      - Play directly (human, bot or agent)
  menu      - Interactive mode picker
  autoplay  - Run many bot or agent games without a UI
  train     - Train an agent's weights
  scores    - View high scores
  sessions  - Export finished games
  analyze   - Summarize finished games
  serve     - Start SSH server for remote play
  config    - Print the effective configuration

Examples:
  dropmerge play
  dropmerge play --mode bot
  dropmerge autoplay --games 100 --mode agent --weights ./agent.yaml
  dropmerge train --algo qlearn --episodes 500 --out ./agent.yaml
  dropmerge analyze --csv ~/.dropmerge/sessions.csv`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.dropmerge/scores.db", "Path to scores database")
	pf.StringVar(&flagSessionLog, "session-log", "~/.dropmerge/sessions.csv", "CSV file finished games are appended to (empty disables)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup builds the logger and loads the configuration.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	out := os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(expandHome(flagLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "dropmerge",
		Level:           level,
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyPreset(&cfg, preset)
	appConfig = cfg

	logger.Debug("configuration loaded",
		"grid", fmt.Sprintf("%dx%d", cfg.Grid.Width, cfg.Grid.Length),
		"early_mode", cfg.Spawn.EarlyMode,
		"decay", cfg.Spawn.Decay,
	)
	return nil
}
