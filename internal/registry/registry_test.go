package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/dropmerge/internal/core"
)

type stubGame struct {
	opts Options
}

func (s *stubGame) ID() string                           { return "stub" }
func (s *stubGame) Title() string                        { return "Stub" }
func (s *stubGame) Reset(core.RuntimeConfig)             {}
func (s *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (s *stubGame) Render(*core.Screen)                  {}
func (s *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreate(t *testing.T) {
	Register("zz_stub", "Stub", func(opts Options) (Game, error) {
		return &stubGame{opts: opts}, nil
	})

	if !Exists("zz_stub") {
		t.Fatal("registered game not found")
	}

	opts := DefaultOptions()
	opts.WeightsPath = "w.yaml"
	g, err := Create("zz_stub", opts)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.(*stubGame).opts.WeightsPath != "w.yaml" {
		t.Error("options not passed to factory")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz_stub" {
			found = info.Title == "Stub"
		}
	}
	if !found {
		t.Error("List missing stub with title")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("nope", DefaultOptions()); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("err = %v, want ErrUnknownGame", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(Options) (Game, error) { return &stubGame{}, nil }
	Register("zz_dup", "Dup", f)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate register")
		}
	}()
	Register("zz_dup", "Dup", f)
}
