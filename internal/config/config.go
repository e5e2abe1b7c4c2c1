// Package config provides YAML-based configuration loading and
// difficulty presets for the drop-merge game.
package config

import (
	"errors"
	"fmt"
)

// FeatureCount is the length of the agent feature/weight vector.
const FeatureCount = 6

// Early-regime spawn pool selection modes.
const (
	EarlyModeMaxTile = "max_tile"
	EarlyModeScore   = "score"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config contains all configuration for the game, bots and agents.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Agent     AgentConfig     `yaml:"agent"`
	Bot       BotConfig       `yaml:"bot"`
}

// GridConfig defines board dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`  // Columns
	Length int `yaml:"length"` // Rows per column
}

// SpawnConfig defines how the next tile value is chosen.
type SpawnConfig struct {
	EarlyMode     string  `yaml:"early_mode"`     // "max_tile" or "score"
	LateThreshold int     `yaml:"late_threshold"` // Max tile that switches to the late regime
	Decay         float64 `yaml:"decay"`          // Weight ratio between consecutive pool values
}

// HeuristicConfig holds the hand-tuned evaluator weights.
type HeuristicConfig struct {
	Score  float64 `yaml:"score"`
	Chain  float64 `yaml:"chain"`
	Empty  float64 `yaml:"empty"`
	Mono   float64 `yaml:"mono"`
	Smooth float64 `yaml:"smooth"`
	Corner float64 `yaml:"corner"`
	Stack  float64 `yaml:"stack"`
}

// AgentConfig holds the initial parameters of the linear agents.
type AgentConfig struct {
	Weights        []float64 `yaml:"weights"`
	LearningRate   float64   `yaml:"learning_rate"`
	DiscountFactor float64   `yaml:"discount_factor"`
	Epsilon        float64   `yaml:"epsilon"`
	EpsilonMin     float64   `yaml:"epsilon_min"`
	EpsilonDecay   float64   `yaml:"epsilon_decay"`
}

// BotConfig controls automated play inside the TUI.
type BotConfig struct {
	MoveEveryTicks int  `yaml:"move_every_ticks"` // Ticks between bot moves
	Parallel       bool `yaml:"parallel"`         // Simulate candidate columns concurrently
}

// Validate reports the first malformed setting. A config that fails here must
// not be used: bad dimensions or weight counts would silently skew scores.
func (c Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Length <= 0 {
		return fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalid, c.Grid.Width, c.Grid.Length)
	}

	if err := c.Spawn.Validate(); err != nil {
		return err
	}

	if len(c.Agent.Weights) != FeatureCount {
		return fmt.Errorf("%w: agent.weights has %d entries, want %d", ErrInvalid, len(c.Agent.Weights), FeatureCount)
	}
	if c.Agent.LearningRate < 0 {
		return fmt.Errorf("%w: agent.learning_rate %g is negative", ErrInvalid, c.Agent.LearningRate)
	}
	if c.Agent.DiscountFactor < 0 || c.Agent.DiscountFactor > 1 {
		return fmt.Errorf("%w: agent.discount_factor %g must be in [0, 1]", ErrInvalid, c.Agent.DiscountFactor)
	}
	if c.Agent.EpsilonMin < 0 || c.Agent.EpsilonMin > c.Agent.Epsilon || c.Agent.Epsilon > 1 {
		return fmt.Errorf("%w: agent epsilon range [%g, %g]", ErrInvalid, c.Agent.EpsilonMin, c.Agent.Epsilon)
	}

	if c.Bot.MoveEveryTicks <= 0 {
		return fmt.Errorf("%w: bot.move_every_ticks %d must be positive", ErrInvalid, c.Bot.MoveEveryTicks)
	}
	return nil
}

// Validate checks the spawn section on its own.
func (s SpawnConfig) Validate() error {
	switch s.EarlyMode {
	case EarlyModeMaxTile, EarlyModeScore:
	default:
		return fmt.Errorf("%w: spawn.early_mode %q", ErrInvalid, s.EarlyMode)
	}
	if !isPowerOfTwo(s.LateThreshold) || s.LateThreshold < 4 {
		return fmt.Errorf("%w: spawn.late_threshold %d must be a power of two >= 4", ErrInvalid, s.LateThreshold)
	}
	if s.Decay <= 0 || s.Decay > 1 {
		return fmt.Errorf("%w: spawn.decay %g must be in (0, 1]", ErrInvalid, s.Decay)
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
