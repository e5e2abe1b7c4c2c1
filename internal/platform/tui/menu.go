package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dropmerge/internal/core"
	"github.com/vovakirdan/dropmerge/internal/game"
	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

const modeCardWidth = 36

var (
	bannerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	modeTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	modeNoteStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	modeCardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Width(modeCardWidth).Padding(0, 1)
	modeCardActiveStyle = modeCardStyle.BorderForeground(lipgloss.Color("57"))
)

var modeNotes = map[string]string{
	game.GameID(game.ModeHuman): "You choose the column for each tile",
	game.GameID(game.ModeBot):   "Lookahead search drops the tiles",
	game.GameID(game.ModeAgent): "Trained weights drop the tiles",
}

// MenuItem is one play mode with its recorded results.
type MenuItem struct {
	GameID string
	Title  string
	Played int
	Best   int
	Tile   int
}

// summary describes the mode's record in one line.
func (it MenuItem) summary() string {
	if it.Played == 0 {
		return "no games yet"
	}
	return fmt.Sprintf("best %d  top tile %d  %d played", it.Best, it.Tile, it.Played)
}

type menuOutcome int

const (
	menuOpen menuOutcome = iota
	menuPlay
	menuScores
	menuQuit
)

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	outcome   menuOutcome
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	help      help.Model
}

// NewMenuModel lists every registered mode. A non-nil store fills in each
// mode's record.
func NewMenuModel(cfg core.RuntimeConfig, store *storage.Store) MenuModel {
	var stats map[string]*storage.GameStats
	if store != nil {
		stats, _ = store.AllGameStats()
	}

	var items []MenuItem
	for _, info := range registry.List() {
		it := MenuItem{GameID: info.ID, Title: info.Title}
		if st, ok := stats[info.ID]; ok {
			it.Played, it.Best, it.Tile = st.GamesCount, st.HighScore, st.BestTile
		}
		items = append(items, it)
	}

	return MenuModel{
		items:     items,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if i, ok := modeShortcut(msg, len(m.items)); ok {
			m.cursor = i
			return m.finish(menuPlay)
		}
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionUp:
			m.cursor = (m.cursor + len(m.items) - 1) % max(len(m.items), 1)
		case MenuActionDown:
			m.cursor = (m.cursor + 1) % max(len(m.items), 1)
		case MenuActionSelect:
			if len(m.items) > 0 {
				return m.finish(menuPlay)
			}
		case MenuActionScoreboard:
			return m.finish(menuScores)
		case MenuActionQuit:
			return m.finish(menuQuit)
		}
	}
	return m, nil
}

func (m MenuModel) finish(o menuOutcome) (tea.Model, tea.Cmd) {
	m.outcome = o
	return m, tea.Quit
}

// modeShortcut maps the digits 1..n to a mode index.
func modeShortcut(msg tea.KeyMsg, n int) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	i := int(msg.Runes[0] - '1')
	return i, i >= 0 && i < n
}

func (m MenuModel) View() string {
	if m.outcome == menuQuit {
		return ""
	}

	blocks := []string{bannerStyle.Render("D R O P   M E R G E")}
	for i, it := range m.items {
		card := modeCardStyle
		title := fmt.Sprintf("%d  %s", i+1, it.Title)
		if i == m.cursor {
			card = modeCardActiveStyle
			title = modeTitleStyle.Render(title)
		}
		note := modeNotes[it.GameID]
		blocks = append(blocks, card.Render(title+"\n"+modeNoteStyle.Render(note)+"\n"+modeNoteStyle.Render(it.summary())))
	}
	blocks = append(blocks, "", helpStyle.Render(m.help.View(m.keyMapper.Menu)))

	body := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, body)
}

// Selected returns the chosen mode, or nil while the menu is open.
func (m MenuModel) Selected() *MenuItem {
	if m.outcome != menuPlay {
		return nil
	}
	it := m.items[m.cursor]
	return &it
}

func (m MenuModel) IsQuitting() bool {
	return m.outcome == menuQuit
}

func (m MenuModel) WantsScoreboard() bool {
	return m.outcome == menuScores
}

// Config returns the runtime config with the last window size applied.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
