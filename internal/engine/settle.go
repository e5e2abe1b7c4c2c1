package engine

// SettleColumn compacts the non-zero cells of col toward row 0, preserving
// their relative order, and zeroes the trailing cells. It is idempotent.
func (g *Grid) SettleColumn(col int) {
	if col < 0 || col >= g.width {
		return
	}

	writeRow := 0
	for r := range g.length {
		v := g.cells[r*g.width+col]
		if v == 0 {
			continue
		}
		if r != writeRow {
			g.cells[writeRow*g.width+col] = v
			g.cells[r*g.width+col] = 0
		}
		writeRow++
	}
}

// SettleAll compacts every column.
func (g *Grid) SettleAll() {
	for c := range g.width {
		g.SettleColumn(c)
	}
}
