package agent

import (
	"context"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

// DefaultMaxMoves caps an episode when retirement keeps a board alive.
const DefaultMaxMoves = 5000

// Env is a playable game the trainers drive.
type Env interface {
	Restart()
	Grid() *engine.Grid // Copy of the current board
	NextValue() int
	Move(col int) (engine.MoveResult, error)
	Over() bool
	Score() int
}

// EpisodeStats summarizes one training episode.
type EpisodeStats struct {
	Episode   int
	Score     int
	Moves     int
	Reward    float64
	Agreement float64 // Imitation: share of moves where the policy matched the expert
	MeanDelta float64 // Q-learning: mean absolute weight change per update
	Epsilon   float64
}

// TrainOptions controls a training run.
type TrainOptions struct {
	Episodes int
	MaxMoves int
	// OnEpisode, when set, runs after every episode; an error stops training.
	OnEpisode func(EpisodeStats) error
}

func (o TrainOptions) maxMoves() int {
	if o.MaxMoves <= 0 {
		return DefaultMaxMoves
	}
	return o.MaxMoves
}

// TrainImitation plays episodes where the expert's move is both learned and
// played. It stops early when ctx is cancelled.
func TrainImitation(ctx context.Context, env Env, a *Imitation, opts TrainOptions) error {
	for ep := range opts.Episodes {
		env.Restart()
		stats := EpisodeStats{Episode: ep + 1}
		agree := 0

		for !env.Over() && stats.Moves < opts.maxMoves() {
			if err := ctx.Err(); err != nil {
				return err
			}

			g, value := env.Grid(), env.NextValue()
			predicted, _ := a.Select(g, value, true)
			col, ok := a.Train(g, value)
			if !ok {
				break
			}
			if predicted == col {
				agree++
			}

			res, err := env.Move(col)
			if err != nil {
				return err
			}
			stats.Reward += float64(res.Merges)
			stats.Moves++
		}

		stats.Score = env.Score()
		if stats.Moves > 0 {
			stats.Agreement = float64(agree) / float64(stats.Moves)
		}
		if opts.OnEpisode != nil {
			if err := opts.OnEpisode(stats); err != nil {
				return err
			}
		}
	}
	return nil
}

// TrainQ plays episodes with the Q-learner's own epsilon-greedy moves and a
// sparse reward. Epsilon decays once per episode.
func TrainQ(ctx context.Context, env Env, q *QLearner, opts TrainOptions) error {
	for ep := range opts.Episodes {
		env.Restart()
		stats := EpisodeStats{Episode: ep + 1}
		deltaSum := 0.0

		for !env.Over() && stats.Moves < opts.maxMoves() {
			if err := ctx.Err(); err != nil {
				return err
			}

			value := env.NextValue()
			col, f, ok := q.Select(env.Grid(), value)
			if !ok {
				break
			}

			res, err := env.Move(col)
			if err != nil {
				return err
			}
			reward := SparseReward(res, value)
			stats.Reward += reward
			stats.Moves++

			deltaSum += q.Update(f, reward, env.Grid(), env.NextValue(), env.Over())
		}

		stats.Score = env.Score()
		if stats.Moves > 0 {
			stats.MeanDelta = deltaSum / float64(stats.Moves)
		}
		q.DecayEpsilon()
		stats.Epsilon = q.Epsilon()

		if opts.OnEpisode != nil {
			if err := opts.OnEpisode(stats); err != nil {
				return err
			}
		}
	}
	return nil
}
