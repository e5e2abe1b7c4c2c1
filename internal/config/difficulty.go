package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// DecayForPreset returns the spawn weight decay for a difficulty preset.
// Lower decay favours small tiles, which are easier to merge.
func DecayForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 1.0
	default:
		return 0.7
	}
}

// ParsePreset validates a preset name. The empty string means "keep config".
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalid, name)
	}
}

// ApplyPreset modifies the spawn settings based on a difficulty preset.
// Hard also switches the early regime to score-driven pools, which grow faster.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Spawn.Decay = DecayForPreset(preset)
	if preset == DifficultyHard {
		cfg.Spawn.EarlyMode = EarlyModeScore
	}
}
