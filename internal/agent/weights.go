// Package agent implements linear-model players over the eval feature vector:
// an imitation learner that follows the heuristic bot and an epsilon-greedy
// Q-learner. Weights are immutable snapshots; each update yields a new one.
package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/dropmerge/internal/eval"
)

var (
	// ErrWeightCount is returned when a weight vector does not match the feature count.
	ErrWeightCount = errors.New("agent: weight count does not match feature count")
	// ErrNoRecord is returned by Load when no weights file exists.
	ErrNoRecord = errors.New("agent: no saved weights")
)

// Weights is an immutable weight vector parallel to eval.Features.
type Weights struct {
	w [eval.NumFeatures]float64
}

// NewWeights copies w into a snapshot.
func NewWeights(w []float64) (Weights, error) {
	var out Weights
	if len(w) != eval.NumFeatures {
		return out, fmt.Errorf("%w: got %d, want %d", ErrWeightCount, len(w), eval.NumFeatures)
	}
	copy(out.w[:], w)
	return out, nil
}

// Slice returns a copy of the weights.
func (w Weights) Slice() []float64 {
	return append([]float64(nil), w.w[:]...)
}

// Score returns w · f.
func (w Weights) Score(f eval.Features) float64 {
	return eval.Dot(w.w[:], f)
}

// step returns w + scale*f as a new snapshot.
func (w Weights) step(scale float64, f eval.Features) Weights {
	for i := range w.w {
		w.w[i] += scale * f[i]
	}
	return w
}

// Record is the persisted form of an agent.
type Record struct {
	Weights        []float64 `yaml:"weights"`
	LearningRate   float64   `yaml:"learning_rate"`
	DiscountFactor float64   `yaml:"discount_factor"`
}

// Save writes r as YAML, creating parent directories.
func Save(path string, r Record) error {
	if len(r.Weights) != eval.NumFeatures {
		return fmt.Errorf("%w: got %d, want %d", ErrWeightCount, len(r.Weights), eval.NumFeatures)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("agent: cannot create directory: %w", err)
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("agent: cannot encode weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("agent: cannot write weights: %w", err)
	}
	return nil
}

// Load reads a record written by Save. A missing file yields ErrNoRecord.
func Load(path string) (Record, error) {
	var r Record
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, fmt.Errorf("%w: %s", ErrNoRecord, path)
	}
	if err != nil {
		return r, fmt.Errorf("agent: cannot read weights: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("agent: cannot parse weights %s: %w", path, err)
	}
	if len(r.Weights) != eval.NumFeatures {
		return r, fmt.Errorf("%w: %s has %d", ErrWeightCount, path, len(r.Weights))
	}
	return r, nil
}

// LoadWeights reads only the weight snapshot from path.
func LoadWeights(path string) (Weights, error) {
	r, err := Load(path)
	if err != nil {
		return Weights{}, err
	}
	return NewWeights(r.Weights)
}
