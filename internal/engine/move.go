package engine

import "fmt"

// MoveStatus tags the outcome of a move.
type MoveStatus int

const (
	// MoveOK means the value was placed (or merged into a full column).
	MoveOK MoveStatus = iota
	// MoveInvalid means the column is full and its far cell does not match.
	MoveInvalid
)

// String returns a human-readable status name.
func (s MoveStatus) String() string {
	switch s {
	case MoveOK:
		return "ok"
	case MoveInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of Drop or Simulate.
// Gain and Merges are zero for an invalid move.
type MoveResult struct {
	Status MoveStatus
	Gain   int // Total score gained by the move
	Merges int // Distinct merge events, including an in-place terminal merge
}

// OK reports whether the move was accepted.
func (r MoveResult) OK() bool {
	return r.Status == MoveOK
}

// Invalid is the result reported for a rejected move.
var Invalid = MoveResult{Status: MoveInvalid}

// Observer receives engine decision points. Implementations must not mutate
// the grid. A nil Observer is allowed wherever one is accepted.
type Observer interface {
	MergeResolved(m Merge)
	MoveRejected(col, value int)
	CascadeCompleted(col int, res MoveResult)
}

// CanPlace reports whether value can be dropped into col.
func (g *Grid) CanPlace(col, value int) bool {
	if col < 0 || col >= g.width {
		return false
	}
	if !g.IsColumnFull(col) {
		return true
	}
	return g.At(g.length-1, col) == value
}

// Drop performs a full move on the receiver: placement, the column-local
// cascade, then the global cascade. A full column whose far cell differs from
// value yields MoveInvalid and leaves the grid untouched.
func (g *Grid) Drop(col, value int, obs Observer) (MoveResult, error) {
	if col < 0 || col >= g.width {
		return Invalid, fmt.Errorf("%w: %d not in [0,%d)", ErrColumnOutOfRange, col, g.width)
	}
	if value <= 0 {
		return Invalid, fmt.Errorf("%w: %d", ErrInvalidValue, value)
	}

	var res MoveResult
	placed := false
	for r := range g.length {
		if g.At(r, col) == 0 {
			g.Set(r, col, value)
			placed = true
			break
		}
	}

	if !placed {
		last := g.length - 1
		if g.At(last, col) != value {
			if obs != nil {
				obs.MoveRejected(col, value)
			}
			return Invalid, nil
		}
		doubled := value * 2
		g.Set(last, col, doubled)
		res.Gain += doubled
		res.Merges++
		if obs != nil {
			obs.MergeResolved(Merge{
				Merged:  true,
				Row:     last,
				Col:     col,
				Matches: 1,
				Value:   doubled,
				Gain:    doubled,
			})
		}
	}

	g.cascade(col, &res, obs)

	if obs != nil {
		obs.CascadeCompleted(col, res)
	}
	return res, nil
}

// cascade runs the column-local merge loop followed by the global one.
func (g *Grid) cascade(col int, res *MoveResult, obs Observer) {
	for {
		m := g.TryMerge(col)
		if !m.Merged {
			break
		}
		res.Gain += m.Gain
		res.Merges++
		if obs != nil {
			obs.MergeResolved(m)
		}
		g.SettleColumn(col)
	}

	// Local merges may clear partners in neighbor columns.
	g.SettleAll()

	for {
		m := g.TryMerge(AllColumns)
		if !m.Merged {
			break
		}
		res.Gain += m.Gain
		res.Merges++
		if obs != nil {
			obs.MergeResolved(m)
		}
		g.SettleAll()
	}
}

// Simulate plays value into col on a deep copy of g and returns the outcome
// together with the post-move copy. g is never modified. Out-of-range columns
// and rejected placements both report MoveInvalid.
func Simulate(g *Grid, col, value int) (MoveResult, *Grid) {
	tmp := g.Clone()
	res, err := tmp.Drop(col, value, nil)
	if err != nil {
		return Invalid, tmp
	}
	return res, tmp
}

// IsGameOver reports whether no move can accept value: every cell is filled
// and no column's far cell equals value.
func IsGameOver(g *Grid, value int) bool {
	if g.EmptyCount() > 0 {
		return false
	}
	last := g.length - 1
	for c := range g.width {
		if g.At(last, c) == value {
			return false
		}
	}
	return true
}
