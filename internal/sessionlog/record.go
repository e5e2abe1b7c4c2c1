// Package sessionlog reads and writes per-game session records as CSV and
// computes the offline summary shown by `dropmerge analyze`.
package sessionlog

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

// Header is the CSV column order.
var Header = []string{"timestamp", "final_score", "running_high_score", "highest_tile_value", "final_grid"}

// ErrBadGrid is returned when a final_grid cell cannot be parsed.
var ErrBadGrid = errors.New("sessionlog: malformed grid")

// Record is one finished game.
type Record struct {
	Timestamp   time.Time
	FinalScore  int
	HighScore   int // Best score seen up to and including this game
	HighestTile int
	Grid        [][]int // Final board, row 0 first
}

// NewRecord builds a record from a finished board.
func NewRecord(ts time.Time, score, highScore int, g *engine.Grid) Record {
	return Record{
		Timestamp:   ts,
		FinalScore:  score,
		HighScore:   highScore,
		HighestTile: g.MaxTile(),
		Grid:        g.Rows(),
	}
}

// FormatGrid renders rows as a nested list: [[2, 0], [4, 8]].
func FormatGrid(rows [][]int) string {
	return engine.FormatRows(rows)
}

// ParseGrid reads a nested list written by FormatGrid (or any YAML/JSON flow
// sequence of integer rows). Rows must be rectangular and non-negative.
func ParseGrid(s string) ([][]int, error) {
	var rows [][]int
	if err := yaml.Unmarshal([]byte(s), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadGrid, err)
	}
	if _, err := engine.FromRows(rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadGrid, err)
	}
	return rows, nil
}

// Board converts the record's grid into an engine grid.
func (r Record) Board() (*engine.Grid, error) {
	return engine.FromRows(r.Grid)
}
