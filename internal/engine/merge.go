package engine

// AllColumns selects an unrestricted TryMerge scan.
const AllColumns = -1

// minMatches is the smallest cluster that merges.
const minMatches = 2

// neighborOffsets lists (row, col) deltas in resolver order: up, left, down, right.
var neighborOffsets = [4][2]int{
	{-1, 0},
	{0, -1},
	{1, 0},
	{0, 1},
}

// Merge describes the outcome of a single TryMerge call.
type Merge struct {
	Merged  bool
	Row     int // Seed row
	Col     int // Seed column
	Matches int // Cleared partner cells
	Value   int // New seed value
	Gain    int // Score gained (equals Value)
}

// Multiplier returns the factor applied to the seed for a match count:
// 2 → ×2, 3 → ×4, 4 or more → ×8. Below two there is no merge.
func Multiplier(matches int) int {
	switch {
	case matches < minMatches:
		return 0
	case matches == 2:
		return 2
	case matches == 3:
		return 4
	default:
		return 8
	}
}

// TryMerge resolves at most one merge event. With scope == AllColumns seeds are
// scanned column by column, rows inner; otherwise only column scope is seeded.
// Partners may sit in any column. The first seed with at least two partners
// wins; its partners are cleared and the seed is scaled. The grid is not
// re-settled: callers loop TryMerge and settle between hits.
func (g *Grid) TryMerge(scope int) Merge {
	first, last := 0, g.width-1
	if scope != AllColumns {
		if scope < 0 || scope >= g.width {
			return Merge{}
		}
		first, last = scope, scope
	}

	visited := make([]bool, len(g.cells))
	matches := make([]int, 0, 8)

	for c := first; c <= last; c++ {
		for r := range g.length {
			value := g.cells[r*g.width+c]
			if value == 0 {
				continue
			}

			clear(visited)
			matches = g.collectMatches(r, c, value, visited, matches[:0])
			if len(matches) < minMatches {
				continue
			}

			for _, idx := range matches {
				g.cells[idx] = 0
			}
			newValue := value * Multiplier(len(matches))
			g.cells[r*g.width+c] = newValue

			return Merge{
				Merged:  true,
				Row:     r,
				Col:     c,
				Matches: len(matches),
				Value:   newValue,
				Gain:    newValue,
			}
		}
	}

	return Merge{}
}

// collectMatches gathers the cell indexes equal to value among the seed's
// direct neighbors and, for each direct match, that neighbor's own neighbors.
// Every examined cell is visited at most once and the seed never matches itself.
func (g *Grid) collectMatches(row, col, value int, visited []bool, out []int) []int {
	visited[row*g.width+col] = true

	for _, d := range neighborOffsets {
		nr, nc := row+d[0], col+d[1]
		if !g.inBounds(nr, nc) {
			continue
		}
		idx := nr*g.width + nc
		if visited[idx] {
			continue
		}
		visited[idx] = true
		if g.cells[idx] != value {
			continue
		}
		out = append(out, idx)

		for _, d2 := range neighborOffsets {
			sr, sc := nr+d2[0], nc+d2[1]
			if !g.inBounds(sr, sc) {
				continue
			}
			sidx := sr*g.width + sc
			if visited[sidx] {
				continue
			}
			visited[sidx] = true
			if g.cells[sidx] == value {
				out = append(out, sidx)
			}
		}
	}

	return out
}
