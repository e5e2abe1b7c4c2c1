package game

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

const (
	// flashDuration is how long a merged tile stays highlighted, in ticks.
	flashDuration = 12
	// maxFlashes bounds the list when moves are played without ticking.
	maxFlashes = 16
)

// LogObserver reports engine events to a logger at debug level.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(l *log.Logger) *LogObserver {
	return &LogObserver{logger: l}
}

// MergeResolved logs a resolved merge.
func (o *LogObserver) MergeResolved(m engine.Merge) {
	o.logger.Debug("merge", "row", m.Row, "col", m.Col, "matches", m.Matches, "value", m.Value)
}

// MoveRejected logs a drop into a full column.
func (o *LogObserver) MoveRejected(col, value int) {
	o.logger.Debug("move rejected", "col", col, "value", value)
}

// CascadeCompleted logs the outcome of a move.
func (o *LogObserver) CascadeCompleted(col int, res engine.MoveResult) {
	o.logger.Debug("cascade", "col", col, "gain", res.Gain, "merges", res.Merges)
}

type multiObserver []engine.Observer

func (m multiObserver) MergeResolved(mg engine.Merge) {
	for _, o := range m {
		o.MergeResolved(mg)
	}
}

func (m multiObserver) MoveRejected(col, value int) {
	for _, o := range m {
		o.MoveRejected(col, value)
	}
}

func (m multiObserver) CascadeCompleted(col int, res engine.MoveResult) {
	for _, o := range m {
		o.CascadeCompleted(col, res)
	}
}

// tileFlash highlights tiles of a merged value in one column. Settling can
// move the seed, so the match is by column and value rather than by cell.
type tileFlash struct {
	col   int
	value int
	ticks int
}

// flashObserver collects merge highlights for the renderer.
type flashObserver struct {
	flashes []tileFlash
}

func newFlashObserver() *flashObserver {
	return &flashObserver{}
}

func (f *flashObserver) MergeResolved(m engine.Merge) {
	if len(f.flashes) >= maxFlashes {
		f.flashes = append(f.flashes[:0], f.flashes[1:]...)
	}
	f.flashes = append(f.flashes, tileFlash{col: m.Col, value: m.Value, ticks: flashDuration})
}

func (f *flashObserver) MoveRejected(int, int) {}

func (f *flashObserver) CascadeCompleted(int, engine.MoveResult) {}

// step ages every highlight and drops expired ones.
func (f *flashObserver) step() {
	live := f.flashes[:0]
	for _, fl := range f.flashes {
		fl.ticks--
		if fl.ticks > 0 {
			live = append(live, fl)
		}
	}
	f.flashes = live
}

func (f *flashObserver) reset() {
	f.flashes = f.flashes[:0]
}

func (f *flashObserver) active(col, value int) bool {
	for _, fl := range f.flashes {
		if fl.col == col && fl.value == value {
			return true
		}
	}
	return false
}
