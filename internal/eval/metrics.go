// Package eval scores post-move boards: a weighted heuristic for the bot and
// a normalized feature vector for the linear agents.
package eval

import (
	"math"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

// EmptyCells returns the number of empty cells.
func EmptyCells(g *engine.Grid) int {
	return g.EmptyCount()
}

// Monotonicity compares every vertically adjacent pair (row r to r+1) and
// every horizontally adjacent pair (col c to c+1). A pair that does not grow
// away from the settling corner scores +1; a growing pair of non-empty cells
// scores minus its log2 gap. It returns the sum and the number of pairs.
func Monotonicity(g *engine.Grid) (sum float64, pairs int) {
	w, l := g.Width(), g.Length()

	for c := range w {
		for r := range l - 1 {
			sum += pairOrder(g.At(r, c), g.At(r+1, c))
			pairs++
		}
	}
	for r := range l {
		for c := range w - 1 {
			sum += pairOrder(g.At(r, c), g.At(r, c+1))
			pairs++
		}
	}
	return sum, pairs
}

func pairOrder(cur, next int) float64 {
	if cur >= next {
		return 1
	}
	if cur > 0 && next > 0 {
		return -(log2(next) - log2(cur))
	}
	return 0
}

// Smoothness sums |log2 a - log2 b| over right and down neighbors that are
// both non-empty. Lower is smoother. It also returns the pair count.
func Smoothness(g *engine.Grid) (sum float64, pairs int) {
	w, l := g.Width(), g.Length()

	for r := range l {
		for c := range w {
			v := g.At(r, c)
			if v == 0 {
				continue
			}
			if c+1 < w {
				if n := g.At(r, c+1); n > 0 {
					sum += math.Abs(log2(v) - log2(n))
					pairs++
				}
			}
			if r+1 < l {
				if n := g.At(r+1, c); n > 0 {
					sum += math.Abs(log2(v) - log2(n))
					pairs++
				}
			}
		}
	}
	return sum, pairs
}

// ColumnPlacement rewards a column whose maximum sits near the settling edge.
// For a maximum on row r: r < L/2 gives unit×(L/2−r), otherwise
// −unit×(r−L/2+1). An empty column counts as row 0.
func ColumnPlacement(g *engine.Grid, col int, unit float64) float64 {
	best, row := 0, 0
	for r := range g.Length() {
		if v := g.At(r, col); v > best {
			best, row = v, r
		}
	}

	half := g.Length() / 2
	if row < half {
		return unit * float64(half-row)
	}
	return -unit * float64(row-half+1)
}

// StackDanger counts columns with at most one empty cell.
func StackDanger(g *engine.Grid) int {
	danger := 0
	for c := range g.Width() {
		if g.ColumnEmptyCount(c) <= 1 {
			danger++
		}
	}
	return danger
}

// CornerOccupancy is 1 when the first maximum (row-major) is at (0,0),
// 0.7 when it is elsewhere on row 0, and 0 otherwise.
func CornerOccupancy(g *engine.Grid) float64 {
	best, br, bc := 0, 0, 0
	for r := range g.Length() {
		for c := range g.Width() {
			if v := g.At(r, c); v > best {
				best, br, bc = v, r, c
			}
		}
	}

	switch {
	case br == 0 && bc == 0:
		return 1
	case br == 0:
		return 0.7
	default:
		return 0
	}
}

func log2(v int) float64 {
	return math.Log2(float64(v))
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
