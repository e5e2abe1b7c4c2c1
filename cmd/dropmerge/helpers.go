package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/dropmerge/internal/core"
	"github.com/vovakirdan/dropmerge/internal/game"
	"github.com/vovakirdan/dropmerge/internal/platform/tui"
	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// sessionLogPath is the expanded --session-log value; empty disables the log.
func sessionLogPath() string {
	if flagSessionLog == "" {
		return ""
	}
	return expandHome(flagSessionLog)
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// gameOptions are the options every game is created with. Full-screen
// commands only log when --log-file keeps logs off the terminal.
func gameOptions(weights string, fullScreen bool) registry.Options {
	var l *log.Logger
	if !fullScreen || flagLogFile != "" {
		l = logger
	}
	return registry.Options{
		Config:      appConfig,
		WeightsPath: expandHome(weights),
		Logger:      l,
	}
}

// openStore opens the scores database. Play commands continue without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// tuiOptions bundles the platform services for the terminal UI.
func tuiOptions(store *storage.Store, fullScreen bool) tui.Options {
	opts := tui.Options{Store: store, SessionLog: sessionLogPath()}
	if !fullScreen || flagLogFile != "" {
		opts.Logger = logger
	}
	return opts
}

// gameTitle returns a registered game's title, or its ID.
func gameTitle(id string) string {
	for _, g := range registry.List() {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}

// modeGameIDs resolves --mode to game IDs; "" or "all" selects every mode.
func modeGameIDs(mode string) ([]string, error) {
	if mode == "" || mode == "all" {
		games := registry.List()
		ids := make([]string, len(games))
		for i, g := range games {
			ids[i] = g.ID
		}
		return ids, nil
	}
	m, err := game.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return []string{game.GameID(m)}, nil
}
