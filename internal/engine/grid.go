// Package engine implements the drop-merge grid: gravity settling, the
// one-hop cluster merge resolver and the full move state machine.
// It has no external dependencies so game logic stays pure and testable.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default board dimensions.
const (
	DefaultWidth  = 4
	DefaultLength = 4
)

var (
	// ErrInvalidSize is returned when a grid is built with non-positive dimensions.
	ErrInvalidSize = errors.New("engine: grid dimensions must be positive")
	// ErrRaggedRows is returned by FromRows when rows differ in length.
	ErrRaggedRows = errors.New("engine: rows must all have the same length")
	// ErrNegativeValue is returned by FromRows for cells below zero.
	ErrNegativeValue = errors.New("engine: cell values must be non-negative")
	// ErrColumnOutOfRange is returned when a move targets a column outside the grid.
	ErrColumnOutOfRange = errors.New("engine: column out of range")
	// ErrInvalidValue is returned when a non-positive value is dropped.
	ErrInvalidValue = errors.New("engine: dropped value must be positive")
)

// Grid is a fixed W×L matrix of tile values where 0 means empty.
// Row 0 is the settling edge: gravity packs every column toward it.
type Grid struct {
	width  int
	length int
	cells  []int // row-major: cells[row*width+col]
}

// New creates an empty grid with width columns and length rows.
func New(width, length int) (*Grid, error) {
	if width <= 0 || length <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, length)
	}
	return &Grid{
		width:  width,
		length: length,
		cells:  make([]int, width*length),
	}, nil
}

// FromRows builds a grid from row-major data, rows[0] being the settling row.
// The data is copied; the grid is not settled.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidSize
	}
	g, err := New(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, r, len(row), g.width)
		}
		for c, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: (%d,%d)=%d", ErrNegativeValue, r, c, v)
			}
			g.cells[r*g.width+c] = v
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Length returns the number of rows in each column.
func (g *Grid) Length() int {
	return g.length
}

// inBounds reports whether (row, col) lies on the grid.
func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.length && col >= 0 && col < g.width
}

// At returns the value at (row, col). Out-of-bounds cells read as 0.
func (g *Grid) At(row, col int) int {
	if !g.inBounds(row, col) {
		return 0
	}
	return g.cells[row*g.width+col]
}

// Set stores a value at (row, col). Out-of-bounds writes are ignored.
func (g *Grid) Set(row, col, value int) {
	if !g.inBounds(row, col) {
		return
	}
	g.cells[row*g.width+col] = value
}

// Column returns a copy of column col, index 0 being the settling row.
func (g *Grid) Column(col int) []int {
	if col < 0 || col >= g.width {
		return nil
	}
	out := make([]int, g.length)
	for r := range g.length {
		out[r] = g.cells[r*g.width+col]
	}
	return out
}

// Rows returns a deep copy of the grid as a row-major matrix.
func (g *Grid) Rows() [][]int {
	out := make([][]int, g.length)
	for r := range g.length {
		out[r] = make([]int, g.width)
		copy(out[r], g.cells[r*g.width:(r+1)*g.width])
	}
	return out
}

// Clone returns an independent deep copy.
func (g *Grid) Clone() *Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, length: g.length, cells: cells}
}

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.length != other.length {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// Reset clears every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}

// EmptyCount returns the number of empty cells on the grid.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, v := range g.cells {
		if v == 0 {
			n++
		}
	}
	return n
}

// ColumnEmptyCount returns the number of empty cells in column col.
func (g *Grid) ColumnEmptyCount(col int) int {
	n := 0
	for r := range g.length {
		if g.At(r, col) == 0 {
			n++
		}
	}
	return n
}

// MaxTile returns the highest value on the grid, 0 when empty.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for _, v := range g.cells {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// IsColumnFull reports whether column col has no empty cell.
func (g *Grid) IsColumnFull(col int) bool {
	return g.ColumnEmptyCount(col) == 0
}

// ClearValue zeroes every cell holding value and returns how many were cleared.
// The grid is left unsettled.
func (g *Grid) ClearValue(value int) int {
	n := 0
	for i, v := range g.cells {
		if v == value {
			g.cells[i] = 0
			n++
		}
	}
	return n
}

// String formats the grid as a nested list, row 0 first: [[2, 0], [4, 0]].
func (g *Grid) String() string {
	return FormatRows(g.Rows())
}

// FormatRows renders rows as a nested list: [[2, 0], [4, 8]].
func FormatRows(rows [][]int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r, row := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for c, v := range row {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
