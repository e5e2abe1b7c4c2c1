package eval

import (
	"math"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

// Feature indexes. The order is part of the saved-weights format.
const (
	FeatScore = iota
	FeatEmpty
	FeatMerge
	FeatMono
	FeatSmooth
	FeatCorner
	NumFeatures
)

// FeatureNames lists feature labels in vector order.
var FeatureNames = [NumFeatures]string{"score", "empty", "merge", "mono", "smooth", "corner"}

// Features is a normalized post-move summary, each entry in [0,1].
type Features [NumFeatures]float64

const (
	scoreLogScale = 12.0 // log2(gain+1) that maps to 1
	mergeScale    = 4.0
	smoothScale   = 6.0 // mean log2 gap that maps to 0
)

// Extract builds the feature vector for a move into col that produced g,
// gaining gain points over merges merge events.
func Extract(col int, g *engine.Grid, gain, merges int) Features {
	var f Features

	if gain > 0 {
		f[FeatScore] = clamp01(math.Log2(float64(gain)+1) / scoreLogScale)
	}

	total := g.Width() * g.Length()
	f[FeatEmpty] = clamp01(float64(EmptyCells(g)) / float64(total))
	f[FeatMerge] = clamp01(float64(merges) / mergeScale)

	if sum, pairs := Monotonicity(g); pairs > 0 {
		f[FeatMono] = clamp01((sum/float64(pairs) + 1) / 2)
	} else {
		f[FeatMono] = 0.5
	}

	if sum, pairs := Smoothness(g); pairs > 0 {
		f[FeatSmooth] = clamp01(1 - (sum/float64(pairs))/smoothScale)
	} else {
		f[FeatSmooth] = 1
	}

	f[FeatCorner] = CornerOccupancy(g)
	return f
}

// Dot returns the weighted sum of f. Missing weights count as zero.
func Dot(weights []float64, f Features) float64 {
	sum := 0.0
	for i := range min(len(weights), NumFeatures) {
		sum += weights[i] * f[i]
	}
	return sum
}
