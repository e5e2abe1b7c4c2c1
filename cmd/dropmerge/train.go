package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dropmerge/internal/agent"
	"github.com/vovakirdan/dropmerge/internal/bot"
	"github.com/vovakirdan/dropmerge/internal/core"
	"github.com/vovakirdan/dropmerge/internal/eval"
	"github.com/vovakirdan/dropmerge/internal/game"
)

const (
	algoImitation = "imitation"
	algoQLearn    = "qlearn"
)

var (
	flagAlgo      string
	flagEpisodes  int
	flagSaveEvery int
	flagOut       string
	flagResume    bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an agent",
	Long: `Train the linear agent used by 'play --mode agent'.

Algorithms:
  imitation  - Learn to pick the heuristic bot's column
  qlearn     - Epsilon-greedy Q-learning with a sparse merge reward

Weights are saved every --save-every episodes and once more at the end.
Ctrl+C stops training and keeps the weights learned so far.

Examples:
  dropmerge train --episodes 200
  dropmerge train --algo qlearn --episodes 1000 --out ./agent.yaml
  dropmerge train --algo qlearn --resume`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagAlgo, "algo", algoImitation, "Training algorithm: imitation, qlearn")
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 100, "Number of episodes")
	trainCmd.Flags().IntVar(&flagSaveEvery, "save-every", 10, "Save weights every N episodes (0 = only at the end)")
	trainCmd.Flags().StringVar(&flagOut, "out", defaultWeightsPath, "Weights output file")
	trainCmd.Flags().BoolVar(&flagResume, "resume", false, "Start from the weights in --out")
	trainCmd.Flags().IntVar(&flagMaxMoves, "max-moves", agent.DefaultMaxMoves, "Stop an episode after this many moves")
}

func runTrain(_ *cobra.Command, _ []string) {
	if err := train(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func train() error {
	if flagAlgo != algoImitation && flagAlgo != algoQLearn {
		return fmt.Errorf("unknown algorithm %q", flagAlgo)
	}
	out := expandHome(flagOut)

	weights, err := initialWeights(out)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	env, err := game.New(game.ModeHuman, gameOptions("", false))
	if err != nil {
		return err
	}
	env.Reset(core.RuntimeConfig{Seed: seed})
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig.Agent
	save := func(w agent.Weights) error {
		return agent.Save(out, agent.Record{
			Weights:        w.Slice(),
			LearningRate:   cfg.LearningRate,
			DiscountFactor: cfg.DiscountFactor,
		})
	}

	var current func() agent.Weights
	opts := agent.TrainOptions{Episodes: flagEpisodes, MaxMoves: flagMaxMoves}
	opts.OnEpisode = func(s agent.EpisodeStats) error {
		logger.Info("episode",
			"n", s.Episode,
			"score", s.Score,
			"moves", s.Moves,
			"reward", fmt.Sprintf("%.2f", s.Reward),
			"agreement", fmt.Sprintf("%.2f", s.Agreement),
			"delta", fmt.Sprintf("%.4f", s.MeanDelta),
			"epsilon", fmt.Sprintf("%.3f", s.Epsilon),
		)
		if flagSaveEvery > 0 && s.Episode%flagSaveEvery == 0 {
			return save(current())
		}
		return nil
	}

	logger.Info("training", "algo", flagAlgo, "episodes", flagEpisodes, "seed", seed, "out", out)

	switch flagAlgo {
	case algoImitation:
		heuristic := bot.Heuristic(eval.NewHeuristic(eval.HeuristicWeightsFrom(appConfig.Heuristic)))
		a := agent.NewImitation(weights, cfg.LearningRate, bot.NewSelector(heuristic, appConfig.Bot.Parallel), rng)
		current = a.Weights
		err = agent.TrainImitation(ctx, env, a, opts)
	case algoQLearn:
		q := agent.NewQLearner(weights, cfg, rng)
		current = q.Weights
		err = agent.TrainQ(ctx, env, q, opts)
	}

	if errors.Is(err, context.Canceled) {
		logger.Warn("training interrupted, saving weights")
		err = nil
	}
	if err != nil {
		return err
	}

	if err := save(current()); err != nil {
		return err
	}
	logger.Info("weights saved", append([]any{"path", out}, namedWeights(current())...)...)
	return nil
}

// namedWeights pairs each weight with its feature name for logging.
func namedWeights(w agent.Weights) []any {
	kv := make([]any, 0, 2*eval.NumFeatures)
	for i, v := range w.Slice() {
		kv = append(kv, eval.FeatureNames[i], v)
	}
	return kv
}

// initialWeights returns the configured weights, or the saved ones with --resume.
func initialWeights(out string) (agent.Weights, error) {
	if flagResume {
		w, err := agent.LoadWeights(out)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, agent.ErrNoRecord) {
			return agent.Weights{}, err
		}
		logger.Warn("nothing to resume, starting from config weights", "path", out)
	}
	return agent.NewWeights(appConfig.Agent.Weights)
}
