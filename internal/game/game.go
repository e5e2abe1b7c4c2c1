// Package game is the live drop-merge session: board, score, next value and
// spawn policy, driven either by a player or by a move selector.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dropmerge/internal/agent"
	"github.com/vovakirdan/dropmerge/internal/bot"
	"github.com/vovakirdan/dropmerge/internal/config"
	"github.com/vovakirdan/dropmerge/internal/core"
	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/sessionlog"
	"github.com/vovakirdan/dropmerge/internal/spawn"
)

// Mode selects who picks the column.
type Mode string

const (
	ModeHuman Mode = "human"
	ModeBot   Mode = "bot"
	ModeAgent Mode = "agent"
)

// ErrGameOver is returned by Move once no column accepts the next value.
var ErrGameOver = errors.New("game: game over")

// ErrUnknownMode is returned by ParseMode and New.
var ErrUnknownMode = errors.New("game: unknown mode")

const (
	msgColumnFull = "Column is full!"
	messageTicks  = 45
)

// ParseMode converts a CLI flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeHuman, ModeBot, ModeAgent:
		return m, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// GameID returns the registry ID for a mode.
func GameID(m Mode) string {
	switch m {
	case ModeBot:
		return "dropmerge_bot"
	case ModeAgent:
		return "dropmerge_agent"
	default:
		return "dropmerge"
	}
}

// Game implements registry.Game for the drop-merge puzzle.
type Game struct {
	mode   Mode
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time

	rng    *rand.Rand
	policy *spawn.Policy
	grid   *engine.Grid
	obs    engine.Observer
	flash  *flashObserver

	// auto picks moves in bot and agent modes; hint ranks columns for the player.
	auto *bot.Selector
	hint *bot.Selector

	score     int
	highScore int
	next      int
	moves     int
	tick      uint64
	cursor    int
	lastCol   int

	message      string
	messageTicks int

	// Screen dimensions
	screenW int
	screenH int

	over     bool
	paused   bool
	tooSmall bool
	showHint bool
}

func init() {
	titles := map[Mode]string{
		ModeHuman: "Drop Merge",
		ModeBot:   "Drop Merge (Bot)",
		ModeAgent: "Drop Merge (Agent)",
	}
	for _, m := range []Mode{ModeHuman, ModeBot, ModeAgent} {
		registry.Register(GameID(m), titles[m], func(opts registry.Options) (registry.Game, error) {
			g, err := New(m, opts)
			if err != nil {
				return nil, err
			}
			return g, nil
		})
	}
}

// New creates a game ready to play with seed 1. Reset reseeds it.
// Agent mode reads weights from opts.WeightsPath and falls back to the
// configured weights when the file does not exist.
func New(mode Mode, opts registry.Options) (*Game, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := engine.New(cfg.Grid.Width, cfg.Grid.Length)
	if err != nil {
		return nil, err
	}

	g := &Game{
		mode:   mode,
		cfg:    cfg,
		logger: opts.Logger,
		now:    time.Now,
		grid:   grid,
		flash:  newFlashObserver(),
	}
	g.obs = g.flash
	if g.logger != nil {
		g.obs = multiObserver{g.flash, NewLogObserver(g.logger)}
	}

	heuristic := bot.Heuristic(eval.NewHeuristic(eval.HeuristicWeightsFrom(cfg.Heuristic)))
	g.hint = bot.NewSelector(heuristic, cfg.Bot.Parallel)

	switch mode {
	case ModeHuman:
	case ModeBot:
		g.auto = g.hint
	case ModeAgent:
		w, err := g.agentWeights(opts.WeightsPath)
		if err != nil {
			return nil, err
		}
		g.auto = bot.NewSelector(bot.Linear(w.Slice()), cfg.Bot.Parallel)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}

	if err := g.reseed(1); err != nil {
		return nil, err
	}
	g.Restart()
	return g, nil
}

func (g *Game) agentWeights(path string) (agent.Weights, error) {
	if path != "" {
		w, err := agent.LoadWeights(path)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, agent.ErrNoRecord) {
			return agent.Weights{}, err
		}
		if g.logger != nil {
			g.logger.Warn("no saved weights, using config", "path", path)
		}
	}
	return agent.NewWeights(g.cfg.Agent.Weights)
}

func (g *Game) reseed(seed int64) error {
	g.rng = rand.New(rand.NewSource(seed))
	policy, err := spawn.New(g.cfg.Spawn, g.rng)
	if err != nil {
		return err
	}
	g.policy = policy
	return nil
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeBot:
		return "Drop Merge (Bot)"
	case ModeAgent:
		return "Drop Merge (Agent)"
	default:
		return "Drop Merge"
	}
}

// Reset reseeds the game and starts a new board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	// The config was validated in New, so the policy cannot fail here.
	_ = g.reseed(cfg.Seed)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.showHint = false
	g.tick = 0
	g.Restart()
	g.checkScreenSize()
}

// Restart clears the board and draws the first value, continuing the
// current random stream. The high score is kept.
func (g *Game) Restart() {
	g.grid.Reset()
	g.score = 0
	g.moves = 0
	g.over = false
	g.cursor = 0
	g.lastCol = -1
	g.message = ""
	g.messageTicks = 0
	g.flash.reset()
	g.next = g.policy.Next(g.grid, 0)
}

// Resize adapts to a new terminal size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	w, h := g.layoutSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Move drops the next value into col. A full column yields MoveInvalid,
// flashes a message and leaves the board, score and next value unchanged.
func (g *Game) Move(col int) (engine.MoveResult, error) {
	if g.over {
		return engine.Invalid, ErrGameOver
	}

	res, err := g.grid.Drop(col, g.next, g.obs)
	if err != nil {
		return res, err
	}
	if !res.OK() {
		g.showMessage(msgColumnFull)
		return res, nil
	}

	g.score += res.Gain
	g.moves++
	g.lastCol = col
	g.cursor = col

	// Matches lined up by retirement resolve on the next drop.
	g.next = g.policy.Next(g.grid, g.score)

	g.highScore = max(g.highScore, g.score)
	g.over = engine.IsGameOver(g.grid, g.next)
	return res, nil
}

func (g *Game) showMessage(msg string) {
	g.message = msg
	g.messageTicks = messageTicks
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.flash.step()
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionHint) {
		g.showHint = !g.showHint
	}

	// Restart after game over is handled by the platform via Reset.
	if g.paused || g.over {
		return core.StepResult{State: g.State()}
	}

	var moved bool
	if g.mode == ModeHuman {
		moved = g.stepHuman(in)
	} else {
		moved = g.stepAuto()
	}
	return core.StepResult{State: g.State(), Moved: moved}
}

func (g *Game) stepHuman(in core.InputFrame) bool {
	if in.Has(core.ActionLeft) {
		g.cursor = core.Clamp(g.cursor-1, 0, g.grid.Width()-1)
	}
	if in.Has(core.ActionRight) {
		g.cursor = core.Clamp(g.cursor+1, 0, g.grid.Width()-1)
	}

	col, direct := in.DirectColumn()
	switch {
	case direct && col < g.grid.Width():
	case in.Has(core.ActionDrop):
		col = g.cursor
	default:
		return false
	}

	res, err := g.Move(col)
	return err == nil && res.OK()
}

func (g *Game) stepAuto() bool {
	if g.tick%uint64(g.cfg.Bot.MoveEveryTicks) != 0 {
		return false
	}
	col, ok := g.auto.Select(g.grid, g.next)
	if !ok {
		g.over = true
		return false
	}
	res, err := g.Move(col)
	return err == nil && res.OK()
}

// AutoMove lets the mode's selector play one move. It reports false when
// the game is over or the mode has no selector.
func (g *Game) AutoMove() bool {
	if g.auto == nil || g.over {
		return false
	}
	col, ok := g.auto.Select(g.grid, g.next)
	if !ok {
		g.over = true
		return false
	}
	res, err := g.Move(col)
	return err == nil && res.OK()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.over,
		Paused:   g.paused || g.tooSmall,
	}
}

// Grid returns a copy of the board.
func (g *Game) Grid() *engine.Grid {
	return g.grid.Clone()
}

// Matrix returns the board as rows, row 0 first.
func (g *Game) Matrix() [][]int {
	return g.grid.Rows()
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// NextValue returns the value the next move will drop.
func (g *Game) NextValue() int {
	return g.next
}

// HighScore returns the best score seen by this game or set by the platform.
func (g *Game) HighScore() int {
	return g.highScore
}

// SetHighScore raises the displayed high score to a stored best.
func (g *Game) SetHighScore(score int) {
	g.highScore = max(g.highScore, score)
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.over
}

// Moves returns the number of accepted moves this game.
func (g *Game) Moves() int {
	return g.moves
}

// Mode returns the play mode name.
func (g *Game) Mode() string {
	return string(g.mode)
}

// Record describes the game for the session log.
func (g *Game) Record() sessionlog.Record {
	return sessionlog.NewRecord(g.now(), g.score, g.highScore, g.grid)
}

// Hints ranks every column for the current next value.
func (g *Game) Hints() []bot.Scored {
	return g.hint.Rank(g.grid, g.next)
}

var (
	_ registry.Game       = (*Game)(nil)
	_ registry.Recorder   = (*Game)(nil)
	_ registry.HighScorer = (*Game)(nil)
	_ agent.Env           = (*Game)(nil)
)
