package agent

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/dropmerge/internal/bot"
	"github.com/vovakirdan/dropmerge/internal/config"
	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
	"github.com/vovakirdan/dropmerge/internal/spawn"
)

// testEnv is a minimal headless game.
type testEnv struct {
	g     *engine.Grid
	pol   *spawn.Policy
	next  int
	score int
	over  bool
}

func newTestEnv(t *testing.T, seed int64) *testEnv {
	t.Helper()
	pol, err := spawn.New(config.DefaultConfig().Spawn, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	g, err := engine.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	e := &testEnv{g: g, pol: pol}
	e.Restart()
	return e
}

func (e *testEnv) Restart() {
	e.g.Reset()
	e.score = 0
	e.over = false
	e.next = e.pol.Next(e.g, 0)
}

func (e *testEnv) Grid() *engine.Grid { return e.g.Clone() }
func (e *testEnv) NextValue() int     { return e.next }
func (e *testEnv) Over() bool         { return e.over }
func (e *testEnv) Score() int         { return e.score }

func (e *testEnv) Move(col int) (engine.MoveResult, error) {
	res, err := e.g.Drop(col, e.next, nil)
	if err != nil || !res.OK() {
		return res, err
	}
	e.score += res.Gain
	e.next = e.pol.Next(e.g, e.score)
	e.over = engine.IsGameOver(e.g, e.next)
	return res, nil
}

func defaultWeights(t *testing.T) Weights {
	t.Helper()
	w, err := NewWeights(config.DefaultConfig().Agent.Weights)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func expert() *bot.Selector {
	return bot.NewSelector(bot.Heuristic(eval.NewHeuristic(eval.DefaultHeuristicWeights())), false)
}

// fromCols builds a grid from columns, cols[c][0] being row 0.
func fromCols(t *testing.T, cols [][]int) *engine.Grid {
	t.Helper()
	rows := make([][]int, len(cols[0]))
	for r := range rows {
		rows[r] = make([]int, len(cols))
		for c, col := range cols {
			rows[r][c] = col[r]
		}
	}
	g, err := engine.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func mergeBoard(t *testing.T) *engine.Grid {
	t.Helper()
	return fromCols(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{16, 0, 0, 0},
	})
}

func TestNewWeightsCount(t *testing.T) {
	if _, err := NewWeights([]float64{1, 2}); !errors.Is(err, ErrWeightCount) {
		t.Errorf("err = %v, want ErrWeightCount", err)
	}
	w, err := NewWeights([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	s := w.Slice()
	s[0] = 100
	if w.Slice()[0] != 1 {
		t.Error("Slice exposed internal storage")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "agent.yaml")
	rec := Record{Weights: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, LearningRate: 0.05, DiscountFactor: 0.9}

	if err := Save(path, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LearningRate != rec.LearningRate || got.DiscountFactor != rec.DiscountFactor {
		t.Errorf("got %+v, want %+v", got, rec)
	}
	for i := range rec.Weights {
		if got.Weights[i] != rec.Weights[i] {
			t.Errorf("weight[%d] = %v, want %v", i, got.Weights[i], rec.Weights[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrNoRecord) {
		t.Errorf("missing: err = %v, want ErrNoRecord", err)
	}

	short := filepath.Join(dir, "short.yaml")
	if err := os.WriteFile(short, []byte("weights: [1, 2]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWeights(short); !errors.Is(err, ErrWeightCount) {
		t.Errorf("short: err = %v, want ErrWeightCount", err)
	}

	if err := Save(filepath.Join(dir, "x.yaml"), Record{Weights: []float64{1}}); !errors.Is(err, ErrWeightCount) {
		t.Errorf("Save short: err = %v, want ErrWeightCount", err)
	}
}

func TestImitationStepTowardExpert(t *testing.T) {
	g := mergeBoard(t)
	a := NewImitation(defaultWeights(t), 0.1, expert(), nil)
	before := a.Weights()

	feats, valid := actionSpace(g, 2)
	p0 := softmax(logitsFor(a.Weights(), feats, valid), valid)

	col, ok := a.Train(g, 2)
	if !ok || col != 0 {
		t.Fatalf("Train = (%d, %v), want (0, true)", col, ok)
	}

	p1 := softmax(logitsFor(a.Weights(), feats, valid), valid)
	if p1[col] <= p0[col] {
		t.Errorf("expert probability did not rise: %v -> %v", p0[col], p1[col])
	}
	if before.Slice()[0] != config.DefaultConfig().Agent.Weights[0] {
		t.Error("published snapshot was mutated")
	}
	if before == a.Weights() {
		t.Error("Train did not produce a new snapshot")
	}
}

func TestImitationSelect(t *testing.T) {
	g := mergeBoard(t)
	a := NewImitation(defaultWeights(t), 0.1, expert(), rand.New(rand.NewSource(9)))

	for range 100 {
		a.Train(g, 2)
	}
	if col, ok := a.Select(g, 2, true); !ok || col != 0 {
		t.Errorf("deterministic Select = (%d, %v), want (0, true)", col, ok)
	}
	for range 50 {
		col, ok := a.Select(g, 2, false)
		if !ok || col < 0 || col >= 4 {
			t.Fatalf("sampled Select = (%d, %v)", col, ok)
		}
	}

	full := fromCols(t, [][]int{{2}, {4}})
	if _, ok := a.Select(full, 8, true); ok {
		t.Error("expected no valid column")
	}
	if _, ok := a.Train(full, 8); ok {
		t.Error("Train on dead board should report !ok")
	}
}

func TestSoftmaxIgnoresInvalid(t *testing.T) {
	p := softmax([]float64{1, 100, 1}, []bool{true, false, true})
	if p[1] != 0 || math.Abs(p[0]-0.5) > 1e-9 || math.Abs(p[2]-0.5) > 1e-9 {
		t.Errorf("softmax = %v", p)
	}
}

func TestSparseReward(t *testing.T) {
	tests := []struct {
		res   engine.MoveResult
		value int
		want  float64
	}{
		{engine.MoveResult{Gain: 256, Merges: 1}, 128, 1},
		{engine.MoveResult{Gain: 8, Merges: 1}, 4, 0},
		{engine.MoveResult{}, 256, 0},
		{engine.Invalid, 512, 0},
	}
	for _, tt := range tests {
		if got := SparseReward(tt.res, tt.value); got != tt.want {
			t.Errorf("SparseReward(%+v, %d) = %v, want %v", tt.res, tt.value, got, tt.want)
		}
	}
}

func TestQUpdateMovesTowardTarget(t *testing.T) {
	cfg := config.DefaultConfig().Agent
	cfg.LearningRate = 0.1
	q := NewQLearner(defaultWeights(t), cfg, nil)

	f := eval.Features{0.5, 0.5, 0.25, 1, 0.8, 1}
	reward := 5.0
	before := math.Abs(reward - q.Weights().Score(f))

	delta := q.Update(f, reward, nil, 0, true)
	after := math.Abs(reward - q.Weights().Score(f))

	if after >= before {
		t.Errorf("TD error did not shrink: %v -> %v", before, after)
	}
	if delta <= 0 {
		t.Errorf("delta = %v, want positive", delta)
	}
}

func TestQSelect(t *testing.T) {
	cfg := config.DefaultConfig().Agent
	cfg.Epsilon, cfg.EpsilonMin = 0, 0
	q := NewQLearner(defaultWeights(t), cfg, nil)

	g := mergeBoard(t)
	col, f, ok := q.Select(g, 2)
	want, _ := bot.NewSelector(bot.Linear(q.Weights().Slice()), false).Select(g, 2)
	if !ok || col != want {
		t.Errorf("greedy Select = (%d, %v), want %d", col, ok, want)
	}
	if f == (eval.Features{}) {
		t.Error("features of chosen move are empty")
	}

	full := fromCols(t, [][]int{{2}, {4}})
	if _, _, ok := q.Select(full, 8); ok {
		t.Error("expected no valid column")
	}
}

func TestDecayEpsilonFloor(t *testing.T) {
	cfg := config.DefaultConfig().Agent
	cfg.Epsilon, cfg.EpsilonMin, cfg.EpsilonDecay = 1, 0.5, 0.5
	q := NewQLearner(defaultWeights(t), cfg, nil)

	q.DecayEpsilon()
	q.DecayEpsilon()
	if q.Epsilon() != 0.5 {
		t.Errorf("epsilon = %v, want floor 0.5", q.Epsilon())
	}
}

func TestTrainLoops(t *testing.T) {
	ctx := context.Background()
	opts := func(n *int) TrainOptions {
		return TrainOptions{
			Episodes: 3,
			MaxMoves: 200,
			OnEpisode: func(s EpisodeStats) error {
				*n++
				if s.Moves == 0 {
					return errors.New("empty episode")
				}
				return nil
			},
		}
	}

	var n int
	im := NewImitation(defaultWeights(t), 0.01, expert(), nil)
	if err := TrainImitation(ctx, newTestEnv(t, 1), im, opts(&n)); err != nil {
		t.Fatalf("TrainImitation: %v", err)
	}
	if n != 3 {
		t.Errorf("imitation episodes = %d, want 3", n)
	}

	n = 0
	q := NewQLearner(defaultWeights(t), config.DefaultConfig().Agent, rand.New(rand.NewSource(2)))
	if err := TrainQ(ctx, newTestEnv(t, 2), q, opts(&n)); err != nil {
		t.Fatalf("TrainQ: %v", err)
	}
	if n != 3 {
		t.Errorf("q episodes = %d, want 3", n)
	}
	if q.Epsilon() >= 1 {
		t.Error("epsilon did not decay")
	}
}

func TestTrainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := NewImitation(defaultWeights(t), 0.01, expert(), nil)
	err := TrainImitation(ctx, newTestEnv(t, 1), im, TrainOptions{Episodes: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
