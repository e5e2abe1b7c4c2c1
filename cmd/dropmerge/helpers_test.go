package main

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vovakirdan/dropmerge/internal/agent"
	"github.com/vovakirdan/dropmerge/internal/game"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/scores.db", filepath.Join(home, "scores.db")},
		{"~other/scores.db", "~other/scores.db"},
		{"/tmp/scores.db", "/tmp/scores.db"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeGameIDs(t *testing.T) {
	tests := []struct {
		mode string
		want []string
	}{
		{"human", []string{"dropmerge"}},
		{"bot", []string{"dropmerge_bot"}},
		{"agent", []string{"dropmerge_agent"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := modeGameIDs(tt.mode)
			if err != nil {
				t.Fatalf("modeGameIDs(%q) failed: %v", tt.mode, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("modeGameIDs(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}

	for _, mode := range []string{"", "all"} {
		got, err := modeGameIDs(mode)
		if err != nil {
			t.Fatalf("modeGameIDs(%q) failed: %v", mode, err)
		}
		for _, id := range []string{"dropmerge", "dropmerge_bot", "dropmerge_agent"} {
			if !slices.Contains(got, id) {
				t.Errorf("modeGameIDs(%q) = %v, missing %s", mode, got, id)
			}
		}
	}

	if _, err := modeGameIDs("robot"); !errors.Is(err, game.ErrUnknownMode) {
		t.Errorf("modeGameIDs(robot) error = %v, want ErrUnknownMode", err)
	}
}

func TestModeGameID(t *testing.T) {
	if id, err := modeGameID("all"); err != nil || id != "" {
		t.Errorf("modeGameID(all) = %q, %v", id, err)
	}
	if id, err := modeGameID("bot"); err != nil || id != "dropmerge_bot" {
		t.Errorf("modeGameID(bot) = %q, %v", id, err)
	}
	if _, err := modeGameID("robot"); err == nil {
		t.Error("modeGameID(robot) should fail")
	}
}

func TestGameTitle(t *testing.T) {
	if got := gameTitle("dropmerge_bot"); got != "Drop Merge (Bot)" {
		t.Errorf("gameTitle(dropmerge_bot) = %q", got)
	}
	if got := gameTitle("nope"); got != "nope" {
		t.Errorf("gameTitle(nope) = %q, want the ID back", got)
	}
}

func TestNamedWeights(t *testing.T) {
	w, err := agent.NewWeights([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewWeights() failed: %v", err)
	}

	kv := namedWeights(w)
	want := []any{"score", 1.0, "empty", 2.0, "merge", 3.0, "mono", 4.0, "smooth", 5.0, "corner", 6.0}
	if !slices.Equal(kv, want) {
		t.Errorf("namedWeights() = %v, want %v", kv, want)
	}
}
