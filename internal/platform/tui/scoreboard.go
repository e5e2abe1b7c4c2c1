package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dropmerge/internal/game"
	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

const (
	maxSessions     = 100
	boardCellWidth  = 6
	previewMinWidth = 84 // below this the final board is hidden
)

var (
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	tabOnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	statLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Back, k.Quit}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev game")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next game")),
		Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next mode")),
		Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev mode")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type scoreboardExit int

const (
	scoreboardOpen scoreboardExit = iota
	scoreboardBack
	scoreboardQuit
)

// ScoreboardModel browses recorded sessions one mode at a time: a stats
// line for the mode, its best sessions, and the final board of the
// highlighted session.
type ScoreboardModel struct {
	store    *storage.Store
	modes    []registry.GameInfo
	mode     int
	stats    *storage.GameStats
	sessions []storage.Session
	table    table.Model
	keys     ScoreboardKeyMap
	help     help.Model
	width    int
	height   int
	exit     scoreboardExit
}

// NewScoreboardModel opens on the first registered mode. A nil store shows
// every mode as empty.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		modes:  registry.List(),
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = sessionTable(height)
	m.load()
	return m
}

func sessionTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Tile", Width: 6},
			{Title: "Moves", Width: 6},
			{Title: "Played", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-9, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// load reads the current mode's stats and best sessions.
func (m *ScoreboardModel) load() {
	m.stats, m.sessions = nil, nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.mode].ID
		m.stats, _ = m.store.GameStats(id)
		m.sessions, _ = m.store.TopSessions(id, maxSessions)
	}

	rows := make([]table.Row, 0, len(m.sessions))
	for i, s := range m.sessions {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.FinalScore),
			strconv.Itoa(s.HighestTile),
			strconv.Itoa(s.Moves),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) shiftMode(d int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + d + len(m.modes)) % len(m.modes)
	m.load()
}

// Selected returns the highlighted session, or nil when the mode has none.
func (m ScoreboardModel) Selected() *storage.Session {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return nil
	}
	return &m.sessions[i]
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-9, 3))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.exit = scoreboardQuit
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.exit = scoreboardBack
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.shiftMode(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.shiftMode(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.exit != scoreboardOpen {
		return ""
	}

	parts := []string{m.tabs(), statLineStyle.Render(m.statLine())}
	if len(m.sessions) == 0 {
		parts = append(parts, panelStyle.Render(emptyStyle.Render("No games recorded for this mode.")))
	} else {
		list := panelStyle.Render(m.table.View())
		if m.width >= previewMinWidth {
			list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", panelStyle.Render(m.preview()))
		}
		parts = append(parts, list)
	}
	parts = append(parts, helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.modes))
	for i, info := range m.modes {
		if i == m.mode {
			tabs[i] = tabOnStyle.Render(info.Title)
		} else {
			tabs[i] = tabStyle.Render(info.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ScoreboardModel) statLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "no games"
	}
	return fmt.Sprintf("%d games  best %d  avg %.0f  top tile %d  last %s",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.BestTile,
		m.stats.LastPlayed.Format("Jan 02 15:04"))
}

// preview draws the highlighted session's final board, row 0 at the bottom.
func (m ScoreboardModel) preview() string {
	sess := m.Selected()
	if sess == nil {
		return ""
	}
	rec, err := sess.Record()
	if err != nil {
		return emptyStyle.Render("board unavailable")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "score %d\n\n", rec.FinalScore)
	for y := len(rec.Grid) - 1; y >= 0; y-- {
		for _, v := range rec.Grid[y] {
			cell := "."
			if v > 0 {
				cell = strconv.Itoa(v)
			}
			b.WriteString(styleFor(game.TileColor(v)).Render(fmt.Sprintf("%*s", boardCellWidth, cell)))
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m ScoreboardModel) IsGoingBack() bool {
	return m.exit == scoreboardBack
}

func (m ScoreboardModel) IsQuitting() bool {
	return m.exit == scoreboardQuit
}

// RunScoreboard shows the scoreboard in the alternate screen and reports
// whether the user asked to go back rather than quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	sb, ok := final.(ScoreboardModel)
	return ok && sb.IsGoingBack(), nil
}
