// Package spawn chooses the value of the next falling tile.
//
// Below the late threshold the candidate pool grows with the board's largest
// tile (or, in score mode, with the score). From the threshold on, a band of
// small values is retired: those values leave the pool and every cell holding
// one is cleared, so the board keeps room as tiles grow.
package spawn

import (
	"math/rand"

	"github.com/vovakirdan/dropmerge/internal/config"
	"github.com/vovakirdan/dropmerge/internal/engine"
)

// DefaultLateThreshold is the max tile that switches to the late regime.
const DefaultLateThreshold = 1024

// lateSpan is how many doublings above the retirement value the late pool reaches.
const lateSpan = 6

// fallbackPool is used for an empty board or an empty computed pool.
var fallbackPool = []int{2, 4}

// retirementLadder caps the retirement value: 8, then 32 through 2^55.
var retirementLadder = func() []int {
	ladder := []int{8}
	for v := 32; v <= 1<<55; v *= 2 {
		ladder = append(ladder, v)
	}
	return ladder
}()

// Policy draws spawn values. It is not safe for concurrent use.
type Policy struct {
	cfg config.SpawnConfig
	rng *rand.Rand
}

// New creates a policy. A nil rng gets a fixed seed.
func New(cfg config.SpawnConfig, rng *rand.Rand) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Policy{cfg: cfg, rng: rng}, nil
}

// RetirementValue returns the largest value retired on a board whose max
// tile is maxTile. Zero means the board is still in the early regime.
func (p *Policy) RetirementValue(maxTile int) int {
	return retirementValue(maxTile, p.cfg.LateThreshold)
}

func retirementValue(maxTile, threshold int) int {
	if maxTile < threshold {
		return 0
	}

	removed := 2
	for maxTile > threshold {
		maxTile /= 2
		removed *= 2
	}

	for _, rung := range retirementLadder {
		if removed <= rung {
			break
		}
		removed /= 2
	}
	return removed
}

// Pool returns the candidate values, ascending, and the retirement value
// (0 in the early regime). It does not touch g.
func (p *Policy) Pool(g *engine.Grid, score int) (pool []int, retire int) {
	maxTile := g.MaxTile()
	if maxTile == 0 {
		return cloneInts(fallbackPool), 0
	}

	if maxTile >= p.cfg.LateThreshold {
		retire = retirementValue(maxTile, p.cfg.LateThreshold)
		return latePool(retire), retire
	}

	if p.cfg.EarlyMode == config.EarlyModeScore {
		return scorePool(score), 0
	}
	return maxTilePool(maxTile), 0
}

// latePool lists the powers of two above retire up to retire×64.
func latePool(retire int) []int {
	pool := make([]int, 0, lateSpan)
	v := retire
	for range lateSpan {
		v *= 2
		pool = append(pool, v)
	}
	return pool
}

// maxTilePool lists the powers of two from 2 to maxTile/2.
func maxTilePool(maxTile int) []int {
	if maxTile == 256 || maxTile == 512 {
		maxTile = 128
	}
	var pool []int
	for v := 2; v <= maxTile/2; v *= 2 {
		pool = append(pool, v)
	}
	if len(pool) == 0 {
		return cloneInts(fallbackPool)
	}
	return pool
}

// scorePool widens the pool at score breakpoints 50, 100 and 200.
func scorePool(score int) []int {
	top := 64
	switch {
	case score < 50:
		top = 8
	case score < 100:
		top = 16
	case score < 200:
		top = 32
	}
	var pool []int
	for v := 2; v <= top; v *= 2 {
		pool = append(pool, v)
	}
	return pool
}

// Retire clears every cell holding retire, retire/2, … 2 and settles the grid.
// It returns the number of cleared cells.
func Retire(g *engine.Grid, retire int) int {
	cleared := 0
	for v := retire; v >= 2; v /= 2 {
		cleared += g.ClearValue(v)
	}
	if cleared > 0 {
		g.SettleAll()
	}
	return cleared
}

// Pick draws from pool, weighting the i-th smallest value by decay^i.
func (p *Policy) Pick(pool []int) int {
	if len(pool) == 0 {
		pool = fallbackPool
	}

	total := 0.0
	w := 1.0
	for range pool {
		total += w
		w *= p.cfg.Decay
	}

	x := p.rng.Float64() * total
	w = 1.0
	for _, v := range pool {
		if x < w {
			return v
		}
		x -= w
		w *= p.cfg.Decay
	}
	return pool[len(pool)-1]
}

// Next returns the next spawn value. In the late regime it first retires the
// small band from g, so the call mutates the grid.
func (p *Policy) Next(g *engine.Grid, score int) int {
	pool, retire := p.Pool(g, score)
	if retire > 0 {
		Retire(g, retire)
	}
	return p.Pick(pool)
}

func cloneInts(s []int) []int {
	return append([]int(nil), s...)
}
