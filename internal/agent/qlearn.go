package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/dropmerge/internal/config"
	"github.com/vovakirdan/dropmerge/internal/engine"
	"github.com/vovakirdan/dropmerge/internal/eval"
)

// RewardThreshold is the smallest dropped value whose merge earns a reward.
const RewardThreshold = 128

// SparseReward is 1 when the move merged and the dropped value was at least
// RewardThreshold, otherwise 0.
func SparseReward(res engine.MoveResult, value int) float64 {
	if res.OK() && res.Merges > 0 && value >= RewardThreshold {
		return 1
	}
	return 0
}

// QLearner approximates Q(s, a) = w · features(a) and explores epsilon-greedily.
type QLearner struct {
	weights      Weights
	lr           float64
	gamma        float64
	epsilon      float64
	epsilonMin   float64
	epsilonDecay float64
	rng          *rand.Rand
}

// NewQLearner creates a Q-learner using the rates from cfg.
func NewQLearner(w Weights, cfg config.AgentConfig, rng *rand.Rand) *QLearner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &QLearner{
		weights:      w,
		lr:           cfg.LearningRate,
		gamma:        cfg.DiscountFactor,
		epsilon:      cfg.Epsilon,
		epsilonMin:   cfg.EpsilonMin,
		epsilonDecay: cfg.EpsilonDecay,
		rng:          rng,
	}
}

// Weights returns the current snapshot.
func (q *QLearner) Weights() Weights {
	return q.weights
}

// Epsilon returns the current exploration rate.
func (q *QLearner) Epsilon() float64 {
	return q.epsilon
}

// DecayEpsilon shrinks epsilon once, never below the floor.
func (q *QLearner) DecayEpsilon() {
	q.epsilon = math.Max(q.epsilonMin, q.epsilon*q.epsilonDecay)
}

// Select picks a column epsilon-greedily and returns the chosen move's features.
func (q *QLearner) Select(g *engine.Grid, value int) (col int, f eval.Features, ok bool) {
	feats, valid := actionSpace(g, value)

	if q.rng.Float64() < q.epsilon {
		var choices []int
		for i, v := range valid {
			if v {
				choices = append(choices, i)
			}
		}
		if len(choices) == 0 {
			return 0, f, false
		}
		col = choices[q.rng.Intn(len(choices))]
		return col, feats[col], true
	}

	col, ok = argmax(logitsFor(q.weights, feats, valid), valid)
	if !ok {
		return 0, f, false
	}
	return col, feats[col], true
}

// Update applies one TD step for the transition that produced f and returns
// the mean absolute weight change. The target bootstraps from the best valid
// move for nextValue on next unless done is set or no move is valid.
func (q *QLearner) Update(f eval.Features, reward float64, next *engine.Grid, nextValue int, done bool) float64 {
	target := reward
	if !done && next != nil {
		feats, valid := actionSpace(next, nextValue)
		logits := logitsFor(q.weights, feats, valid)
		if best, ok := argmax(logits, valid); ok {
			target += q.gamma * logits[best]
		}
	}

	tdErr := target - q.weights.Score(f)
	scale := q.lr * tdErr
	q.weights = q.weights.step(scale, f)

	sum := 0.0
	for _, v := range f {
		sum += math.Abs(scale * v)
	}
	return sum / eval.NumFeatures
}
