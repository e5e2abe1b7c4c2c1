package sessionlog

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
)

// Summary is the offline analysis of a set of games.
type Summary struct {
	Games       int
	MeanScore   float64
	MedianScore float64
	MaxScore    int
	StdScore    float64

	// HighestTiles counts games by their highest tile.
	HighestTiles map[int]int

	// Board shape over final grids.
	CornerPct      float64 // Share of games whose max tile sits in a corner, 0..100
	MeanEmpty      float64
	MeanSmoothness float64

	// Trend over games in timestamp order.
	Window         int
	RollingMean    []float64
	BestIncreasing int // Longest run of strictly rising scores
}

// Summarize computes the summary. An empty input yields a zero Summary.
func Summarize(recs []Record) Summary {
	s := Summary{Games: len(recs), HighestTiles: map[int]int{}}
	if len(recs) == 0 {
		return s
	}

	ordered := slices.Clone(recs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	scores := make([]float64, len(ordered))
	for i, r := range ordered {
		scores[i] = float64(r.FinalScore)
		s.MaxScore = max(s.MaxScore, r.FinalScore)
		s.HighestTiles[r.HighestTile]++
	}
	s.MeanScore, s.StdScore = stat.PopMeanStdDev(scores, nil)
	s.MedianScore = median(scores)

	s.Window = max(3, min(len(scores), 20))
	s.RollingMean = rollingMean(scores, s.Window)
	s.BestIncreasing = longestRise(scores)

	boards := 0
	corners, empty, smooth := 0, 0.0, 0.0
	for _, r := range ordered {
		g, err := r.Board()
		if err != nil {
			continue
		}
		boards++
		if maxInCorner(g) {
			corners++
		}
		empty += float64(g.EmptyCount())
		sm, _ := eval.Smoothness(g)
		smooth += sm
	}
	if boards > 0 {
		s.CornerPct = 100 * float64(corners) / float64(boards)
		s.MeanEmpty = empty / float64(boards)
		s.MeanSmoothness = smooth / float64(boards)
	}
	return s
}

// median averages the two middle values of an even-sized input.
func median(v []float64) float64 {
	sorted := slices.Clone(v)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// rollingMean averages each score with up to window-1 predecessors.
func rollingMean(v []float64, window int) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for i, x := range v {
		sum += x
		if i >= window {
			sum -= v[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

func longestRise(v []float64) int {
	best, cur := 1, 1
	for i := 1; i < len(v); i++ {
		if v[i] > v[i-1] {
			cur++
			best = max(best, cur)
		} else {
			cur = 1
		}
	}
	return best
}

func maxInCorner(g *engine.Grid) bool {
	top := g.MaxTile()
	if top == 0 {
		return false
	}
	lastR, lastC := g.Length()-1, g.Width()-1
	for _, p := range [][2]int{{0, 0}, {0, lastC}, {lastR, 0}, {lastR, lastC}} {
		if g.At(p[0], p[1]) == top {
			return true
		}
	}
	return false
}

// TileValues returns the keys of HighestTiles in ascending order.
func (s Summary) TileValues() []int {
	keys := make([]int, 0, len(s.HighestTiles))
	for k := range s.HighestTiles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
