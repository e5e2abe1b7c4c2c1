package game

// Phase is the coarse state of a game.
type Phase string

const (
	PhasePlaying     Phase = "playing"
	PhasePaused      Phase = "paused"
	PhaseGameOver    Phase = "game_over"
	PhasePausedSmall Phase = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Score     int
	HighScore int
	Next      int
	Moves     int
	Board     [][]int // Row 0 first
	MaxTile   int
	Retired   int // Largest value the spawn policy retires, 0 early on
	Phase     Phase
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	phase := PhasePlaying
	switch {
	case g.tooSmall:
		phase = PhasePausedSmall
	case g.over:
		phase = PhaseGameOver
	case g.paused:
		phase = PhasePaused
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     g.score,
		HighScore: g.highScore,
		Next:      g.next,
		Moves:     g.moves,
		Board:     g.Matrix(),
		MaxTile:   g.grid.MaxTile(),
		Retired:   g.policy.RetirementValue(g.grid.MaxTile()),
		Phase:     phase,
	}
}
