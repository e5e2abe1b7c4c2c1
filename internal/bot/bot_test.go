package bot

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
)

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
		t.Fatalf("FromRows: %v", err)
	}
	return g
}

func heuristicSelector(parallel bool) *Selector {
	return NewSelector(Heuristic(eval.NewHeuristic(eval.DefaultHeuristicWeights())), parallel)
}

func TestSelectPrefersMerge(t *testing.T) {
	g := fromCols(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{16, 0, 0, 0},
	})
	before := g.Clone()

	col, ok := heuristicSelector(false).Select(g, 2)
	if !ok || col != 0 {
		t.Errorf("Select = (%d, %v), want (0, true)", col, ok)
	}
	if !g.Equal(before) {
		t.Error("Select mutated the live grid")
	}
}

func TestSelectAllInvalid(t *testing.T) {
	g := fromCols(t, [][]int{{2}, {4}})
	col, ok := heuristicSelector(false).Select(g, 8)
	if ok || col != 0 {
		t.Errorf("Select = (%d, %v), want (0, false)", col, ok)
	}
}

func TestSelectSkipsInvalidColumns(t *testing.T) {
	g := fromCols(t, [][]int{{2}, {4}})
	col, ok := heuristicSelector(false).Select(g, 4)
	if !ok || col != 1 {
		t.Errorf("Select = (%d, %v), want (1, true)", col, ok)
	}
}

func TestSelectTieGoesToLowestColumn(t *testing.T) {
	flat := NewSelector(func(Candidate) float64 { return 1 }, false)
	g := fromCols(t, [][]int{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	if col, ok := flat.Select(g, 2); !ok || col != 0 {
		t.Errorf("Select = (%d, %v), want (0, true)", col, ok)
	}

	// Column 0 full and blocked, the rest tie.
	g = fromCols(t, [][]int{{2, 4, 2, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	if col, ok := flat.Select(g, 8); !ok || col != 1 {
		t.Errorf("Select = (%d, %v), want (1, true)", col, ok)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := []int{2, 4, 8, 16}
	seq := heuristicSelector(false)
	par := heuristicSelector(true)

	g := fromCols(t, [][]int{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	for step := range 200 {
		v := values[rng.Intn(len(values))]
		if engine.IsGameOver(g, v) {
			g.Reset()
			continue
		}

		a := seq.Evaluate(g, v)
		b := par.Evaluate(g, v)
		for i := range a {
			if a[i].Result != b[i].Result || !a[i].Grid.Equal(b[i].Grid) {
				t.Fatalf("step %d col %d: sequential %+v != parallel %+v", step, i, a[i].Result, b[i].Result)
			}
			if a[i].Score != b[i].Score && !(math.IsInf(a[i].Score, -1) && math.IsInf(b[i].Score, -1)) {
				t.Fatalf("step %d col %d: score %v != %v", step, i, a[i].Score, b[i].Score)
			}
		}

		col, ok := seq.Select(g, v)
		if !ok {
			g.Reset()
			continue
		}
		if _, err := g.Drop(col, v, nil); err != nil {
			t.Fatalf("Drop: %v", err)
		}
	}
}

func TestRankOrdersValidFirst(t *testing.T) {
	g := fromCols(t, [][]int{{2, 4}, {0, 0}, {2, 8}})
	ranked := heuristicSelector(false).Rank(g, 16)

	if len(ranked) != 3 {
		t.Fatalf("len = %d", len(ranked))
	}
	if ranked[0].Column != 1 || !ranked[0].Valid() {
		t.Errorf("first = %+v, want valid column 1", ranked[0])
	}
	for _, sc := range ranked[1:] {
		if sc.Valid() || !math.IsInf(sc.Score, -1) {
			t.Errorf("expected invalid tail, got %+v", sc)
		}
	}
}

func TestLinearScorer(t *testing.T) {
	g := fromCols(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{16, 0, 0, 0},
	})
	emptyOnly := make([]float64, eval.NumFeatures)
	emptyOnly[eval.FeatEmpty] = 1

	sel := NewSelector(Linear(emptyOnly), false)
	if col, ok := sel.Select(g, 2); !ok || col != 0 {
		t.Errorf("Select = (%d, %v), want (0, true)", col, ok)
	}
}

func TestBest(t *testing.T) {
	scored := []Scored{
		{Candidate{Column: 0, Result: engine.Invalid}, math.Inf(-1)},
		{Candidate{Column: 1, Result: engine.MoveResult{}}, 5},
		{Candidate{Column: 2, Result: engine.MoveResult{}}, 7},
		{Candidate{Column: 3, Result: engine.MoveResult{}}, 7},
	}
	if col, ok := Best(scored); !ok || col != 2 {
		t.Errorf("Best = (%d, %v), want (2, true)", col, ok)
	}
}

func TestCandidatesWideBoard(t *testing.T) {
	// More columns than workers: every column must still be simulated once.
	g, err := engine.New(64, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Set(0, 5, 2)
	g.Set(0, 6, 2)

	seq := Candidates(g, 2, false)
	par := Candidates(g, 2, true)
	if len(par) != 64 {
		t.Fatalf("len = %d, want 64", len(par))
	}
	for col, c := range par {
		if c.Column != col || !c.Valid() {
			t.Fatalf("candidate %d = %+v", col, c)
		}
		if c.Result != seq[col].Result || !c.Grid.Equal(seq[col].Grid) {
			t.Errorf("col %d: parallel %+v != sequential %+v", col, c.Result, seq[col].Result)
		}
	}
	if par[5].Result.Gain != 4 {
		t.Errorf("col 5 gain = %d, want 4", par[5].Result.Gain)
	}
}
