package config

import (
	_ "embed"
)

//go:embed defaults/dropmerge.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
// Used as fallback if the embedded YAML fails to parse.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Width:  4,
			Length: 4,
		},
		Spawn: SpawnConfig{
			EarlyMode:     EarlyModeMaxTile,
			LateThreshold: 1024,
			Decay:         0.7,
		},
		Heuristic: HeuristicConfig{
			Score:  20,
			Chain:  100,
			Empty:  1000,
			Mono:   300,
			Smooth: 200,
			Corner: 400,
			Stack:  100,
		},
		Agent: AgentConfig{
			Weights:        []float64{0.15, 0.30, 0.10, 0.15, 0.15, 0.15},
			LearningRate:   0.01,
			DiscountFactor: 0.99,
			Epsilon:        1.0,
			EpsilonMin:     0.01,
			EpsilonDecay:   0.99,
		},
		Bot: BotConfig{
			MoveEveryTicks: 12,
			Parallel:       false,
		},
	}
}
