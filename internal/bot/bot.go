// Package bot picks a column for the incoming value by simulating every
// column once and scoring the resulting boards.
package bot

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
)

// Candidate is the simulated outcome of dropping into one column.
type Candidate struct {
	Column int
	Result engine.MoveResult
	Grid   *engine.Grid // Post-move copy, never the live grid
}

// Valid reports whether the move was accepted.
func (c Candidate) Valid() bool {
	return c.Result.OK()
}

// Candidates simulates value in every column of g on independent copies.
// The slice is indexed by column. With parallel set the simulations fan out
// over goroutines; the result is identical either way.
func Candidates(g *engine.Grid, value int, parallel bool) []Candidate {
	out := make([]Candidate, g.Width())

	if !parallel {
		for col := range out {
			res, next := engine.Simulate(g, col, value)
			out[col] = Candidate{Column: col, Result: res, Grid: next}
		}
		return out
	}

	// Simulate clones g before touching it, so concurrent reads are safe.
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for col := range out {
		eg.Go(func() error {
			res, next := engine.Simulate(g, col, value)
			out[col] = Candidate{Column: col, Result: res, Grid: next}
			return nil
		})
	}
	// Simulate reports failure in its result, so Wait always returns nil.
	_ = eg.Wait()
	return out
}

// Scorer rates a valid candidate. Higher is better.
type Scorer func(c Candidate) float64

// Heuristic scores candidates with the hand-tuned evaluator.
func Heuristic(h eval.Heuristic) Scorer {
	return func(c Candidate) float64 {
		return h.Score(c.Column, c.Grid, c.Result.Gain, c.Result.Merges)
	}
}

// Linear scores candidates as weights · features.
func Linear(weights []float64) Scorer {
	w := append([]float64(nil), weights...)
	return func(c Candidate) float64 {
		return eval.Dot(w, eval.Extract(c.Column, c.Grid, c.Result.Gain, c.Result.Merges))
	}
}

// Scored pairs a candidate with its score. Invalid candidates score -Inf.
type Scored struct {
	Candidate
	Score float64
}

// Selector runs a one-ply search with a fixed scorer.
type Selector struct {
	score    Scorer
	parallel bool
}

// NewSelector creates a selector.
func NewSelector(score Scorer, parallel bool) *Selector {
	return &Selector{score: score, parallel: parallel}
}

// Evaluate scores every column, in column order.
func (s *Selector) Evaluate(g *engine.Grid, value int) []Scored {
	cands := Candidates(g, value, s.parallel)
	out := make([]Scored, len(cands))
	for i, c := range cands {
		out[i] = Scored{Candidate: c, Score: math.Inf(-1)}
		if c.Valid() {
			out[i].Score = s.score(c)
		}
	}
	return out
}

// Select returns the column with the strictly highest score; ties go to the
// lowest column. ok is false, with column 0, when no column accepts value.
// The caller still decides game over on its own.
func (s *Selector) Select(g *engine.Grid, value int) (col int, ok bool) {
	return Best(s.Evaluate(g, value))
}

// Best applies the selection rule to per-column scores.
func Best(scored []Scored) (col int, ok bool) {
	best := math.Inf(-1)
	for _, sc := range scored {
		if !sc.Valid() {
			continue
		}
		if !ok || sc.Score > best {
			best = sc.Score
			col = sc.Column
			ok = true
		}
	}
	return col, ok
}

// Rank returns every column ordered best first. Equal scores keep column
// order and invalid columns come last.
func (s *Selector) Rank(g *engine.Grid, value int) []Scored {
	scored := s.Evaluate(g, value)
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Valid() != b.Valid() {
			return a.Valid()
		}
		return a.Score > b.Score
	})
	return scored
}
