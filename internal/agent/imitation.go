package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/dropmerge/internal/bot"
	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
)

// actionSpace returns the feature vector of every column and which are valid.
func actionSpace(g *engine.Grid, value int) ([]eval.Features, []bool) {
	cands := bot.Candidates(g, value, false)
	feats := make([]eval.Features, len(cands))
	valid := make([]bool, len(cands))
	for i, c := range cands {
		if !c.Valid() {
			continue
		}
		valid[i] = true
		feats[i] = eval.Extract(c.Column, c.Grid, c.Result.Gain, c.Result.Merges)
	}
	return feats, valid
}

// softmax over valid logits; invalid entries get probability 0.
func softmax(logits []float64, valid []bool) []float64 {
	top := math.Inf(-1)
	for i, l := range logits {
		if valid[i] && l > top {
			top = l
		}
	}

	probs := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		if !valid[i] {
			continue
		}
		probs[i] = math.Exp(l - top)
		sum += probs[i]
	}
	if sum == 0 {
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the first valid index with the highest logit.
func argmax(logits []float64, valid []bool) (int, bool) {
	best, ok := 0, false
	for i, l := range logits {
		if valid[i] && (!ok || l > logits[best]) {
			best, ok = i, true
		}
	}
	return best, ok
}

func logitsFor(w Weights, feats []eval.Features, valid []bool) []float64 {
	logits := make([]float64, len(feats))
	for i := range feats {
		if valid[i] {
			logits[i] = w.Score(feats[i])
		}
	}
	return logits
}

// Imitation learns a softmax policy that imitates an expert selector.
type Imitation struct {
	weights Weights
	lr      float64
	expert  *bot.Selector
	rng     *rand.Rand
}

// NewImitation creates an imitation learner.
func NewImitation(w Weights, learningRate float64, expert *bot.Selector, rng *rand.Rand) *Imitation {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Imitation{weights: w, lr: learningRate, expert: expert, rng: rng}
}

// Weights returns the current snapshot.
func (a *Imitation) Weights() Weights {
	return a.weights
}

// Train takes one policy-gradient step toward the expert's choice and returns
// that choice. ok is false when no column is valid; weights are then unchanged.
func (a *Imitation) Train(g *engine.Grid, value int) (expertCol int, ok bool) {
	expertCol, ok = a.expert.Select(g, value)
	if !ok {
		return 0, false
	}

	feats, valid := actionSpace(g, value)
	probs := softmax(logitsFor(a.weights, feats, valid), valid)

	var grad eval.Features
	for i := range feats {
		if !valid[i] {
			continue
		}
		target := 0.0
		if i == expertCol {
			target = 1
		}
		for k := range grad {
			grad[k] += (target - probs[i]) * feats[i][k]
		}
	}

	a.weights = a.weights.step(a.lr, grad)
	return expertCol, true
}

// Select picks a column by argmax, or samples from the softmax policy when
// deterministic is false.
func (a *Imitation) Select(g *engine.Grid, value int, deterministic bool) (int, bool) {
	feats, valid := actionSpace(g, value)
	logits := logitsFor(a.weights, feats, valid)
	if deterministic {
		return argmax(logits, valid)
	}

	probs := softmax(logits, valid)
	x := a.rng.Float64()
	last, ok := 0, false
	for i, p := range probs {
		if !valid[i] {
			continue
		}
		last, ok = i, true
		if x < p {
			return i, true
		}
		x -= p
	}
	return last, ok
}
