package eval

import (
	"github.com/vovakirdan/dropmerge/internal/config"
	"github.com/vovakirdan/dropmerge/internal/engine"
)

// HeuristicWeights is an immutable set of evaluator weights.
type HeuristicWeights struct {
	Score  float64
	Chain  float64
	Empty  float64
	Mono   float64
	Smooth float64
	Corner float64
	Stack  float64
}

// DefaultHeuristicWeights returns the hand-tuned weights.
func DefaultHeuristicWeights() HeuristicWeights {
	return HeuristicWeightsFrom(config.DefaultConfig().Heuristic)
}

// HeuristicWeightsFrom converts the config section.
func HeuristicWeightsFrom(c config.HeuristicConfig) HeuristicWeights {
	return HeuristicWeights{
		Score:  c.Score,
		Chain:  c.Chain,
		Empty:  c.Empty,
		Mono:   c.Mono,
		Smooth: c.Smooth,
		Corner: c.Corner,
		Stack:  c.Stack,
	}
}

// Heuristic scores post-move boards with fixed weights.
type Heuristic struct {
	w HeuristicWeights
}

// NewHeuristic creates an evaluator bound to w.
func NewHeuristic(w HeuristicWeights) Heuristic {
	return Heuristic{w: w}
}

// Weights returns the evaluator's weights.
func (h Heuristic) Weights() HeuristicWeights {
	return h.w
}

// Score evaluates g after a move into col that gained gain points with merges
// merge events. Higher is better. The chain bonus applies only to cascades.
func (h Heuristic) Score(col int, g *engine.Grid, gain, merges int) float64 {
	score := float64(gain) * h.w.Score

	if merges > 1 {
		score += float64(merges) * h.w.Chain
	}

	mono, _ := Monotonicity(g)
	smooth, _ := Smoothness(g)

	score += float64(EmptyCells(g)) * h.w.Empty
	score += mono * h.w.Mono
	score -= smooth * h.w.Smooth
	score += ColumnPlacement(g, col, h.w.Corner)
	score -= float64(StackDanger(g)) * h.w.Stack

	return score
}
