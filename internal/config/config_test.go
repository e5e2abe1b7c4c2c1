package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	def := DefaultConfig()

	if cfg.Grid != def.Grid {
		t.Errorf("grid = %+v, want %+v", cfg.Grid, def.Grid)
	}
	if cfg.Spawn != def.Spawn {
		t.Errorf("spawn = %+v, want %+v", cfg.Spawn, def.Spawn)
	}
	if cfg.Heuristic != def.Heuristic {
		t.Errorf("heuristic = %+v, want %+v", cfg.Heuristic, def.Heuristic)
	}
	if cfg.Bot != def.Bot {
		t.Errorf("bot = %+v, want %+v", cfg.Bot, def.Bot)
	}
	if len(cfg.Agent.Weights) != FeatureCount {
		t.Fatalf("agent weights = %v", cfg.Agent.Weights)
	}
	for i, w := range def.Agent.Weights {
		if cfg.Agent.Weights[i] != w {
			t.Errorf("weight[%d] = %v, want %v", i, cfg.Agent.Weights[i], w)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("grid:\n  width: 5\nspawn:\n  decay: 1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Width != 5 || cfg.Grid.Length != 4 {
		t.Errorf("grid = %+v, want width 5 length 4", cfg.Grid)
	}
	if cfg.Spawn.Decay != 1 {
		t.Errorf("decay = %v, want 1", cfg.Spawn.Decay)
	}
	if cfg.Spawn.LateThreshold != 1024 {
		t.Errorf("late threshold = %d, want default 1024", cfg.Spawn.LateThreshold)
	}
	if len(cfg.Agent.Weights) != FeatureCount {
		t.Errorf("weights not defaulted: %v", cfg.Agent.Weights)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("agent:\n  weights: [1, 2, 3]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Grid.Width = 0 }, false},
		{"negative length", func(c *Config) { c.Grid.Length = -1 }, false},
		{"unknown mode", func(c *Config) { c.Spawn.EarlyMode = "random" }, false},
		{"score mode", func(c *Config) { c.Spawn.EarlyMode = EarlyModeScore }, true},
		{"threshold not power of two", func(c *Config) { c.Spawn.LateThreshold = 1000 }, false},
		{"zero decay", func(c *Config) { c.Spawn.Decay = 0 }, false},
		{"decay above one", func(c *Config) { c.Spawn.Decay = 1.5 }, false},
		{"short weights", func(c *Config) { c.Agent.Weights = []float64{1} }, false},
		{"discount above one", func(c *Config) { c.Agent.DiscountFactor = 2 }, false},
		{"epsilon floor above start", func(c *Config) { c.Agent.EpsilonMin = 1; c.Agent.Epsilon = 0.5 }, false},
		{"zero bot ticks", func(c *Config) { c.Bot.MoveEveryTicks = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		decay  float64
		mode   string
	}{
		{"", 0.7, EarlyModeMaxTile},
		{DifficultyEasy, 0.5, EarlyModeMaxTile},
		{DifficultyNormal, 0.7, EarlyModeMaxTile},
		{DifficultyHard, 1.0, EarlyModeScore},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		ApplyPreset(&cfg, tt.preset)
		if cfg.Spawn.Decay != tt.decay || cfg.Spawn.EarlyMode != tt.mode {
			t.Errorf("preset %q: spawn = %+v, want decay %v mode %s", tt.preset, cfg.Spawn, tt.decay, tt.mode)
		}
	}

	if _, err := ParsePreset("insane"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParsePreset(insane) err = %v", err)
	}
}
