package sessionlog

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/dropmerge/internal/engine"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(minute, score, high, tile int, grid [][]int) Record {
	return Record{
		Timestamp:   t0.Add(time.Duration(minute) * time.Minute),
		FinalScore:  score,
		HighScore:   high,
		HighestTile: tile,
		Grid:        grid,
	}
}

func TestFormatParseGrid(t *testing.T) {
	rows := [][]int{{2, 0}, {4, 8}}
	s := FormatGrid(rows)
	if s != "[[2, 0], [4, 8]]" {
		t.Errorf("FormatGrid = %q", s)
	}

	got, err := ParseGrid(s)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if !slices.EqualFunc(got, rows, slices.Equal[[]int]) {
		t.Errorf("ParseGrid = %v, want %v", got, rows)
	}

	// Matches the engine's own text form.
	g, _ := engine.FromRows(rows)
	if g.String() != s {
		t.Errorf("engine String = %q, FormatGrid = %q", g.String(), s)
	}
}

func TestParseGridErrors(t *testing.T) {
	bad := []string{
		"",
		"not a grid",
		"[[2, 0], [4]]",
		"[[2, -4]]",
		"[[2, x]]",
	}
	for _, s := range bad {
		if _, err := ParseGrid(s); !errors.Is(err, ErrBadGrid) {
			t.Errorf("ParseGrid(%q) err = %v, want ErrBadGrid", s, err)
		}
	}
}

func TestWriteRead(t *testing.T) {
	recs := []Record{
		rec(0, 120, 120, 32, [][]int{{32, 4}, {2, 0}}),
		rec(5, 80, 120, 16, [][]int{{16, 8}, {4, 2}}),
	}

	var buf bytes.Buffer
	if err := Write(&buf, recs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), strings.Join(Header, ",")+"\n") {
		t.Errorf("missing header: %q", buf.String())
	}

	got, skipped, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if skipped != 0 || len(got) != 2 {
		t.Fatalf("Read = %d records, %d skipped", len(got), skipped)
	}
	for i := range recs {
		if !got[i].Timestamp.Equal(recs[i].Timestamp) || got[i].FinalScore != recs[i].FinalScore ||
			got[i].HighScore != recs[i].HighScore || got[i].HighestTile != recs[i].HighestTile {
			t.Errorf("record %d = %+v, want %+v", i, got[i], recs[i])
		}
		if FormatGrid(got[i].Grid) != FormatGrid(recs[i].Grid) {
			t.Errorf("grid %d = %v", i, got[i].Grid)
		}
	}
}

func TestReadSkipsBadRowsAndReordersColumns(t *testing.T) {
	in := strings.Join([]string{
		"final_grid,timestamp,final_score,running_high_score,highest_tile_value,extra",
		`"[[2, 4]]",2025-03-01 12:00:00,10,10,4,x`,
		`"[[2, 4], [8]]",2025-03-01 12:01:00,10,10,8,x`,
		`"[[2, 4]]",yesterday,10,10,4,x`,
		`"[[16, 4]]",2025-03-01T12:02:00Z,30,30,16,x`,
	}, "\n")

	got, skipped, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 || skipped != 2 {
		t.Fatalf("got %d records, %d skipped; want 2, 2", len(got), skipped)
	}
	if got[1].FinalScore != 30 || got[1].Grid[0][0] != 16 {
		t.Errorf("second record = %+v", got[1])
	}
}

func TestReadMissingColumn(t *testing.T) {
	_, _, err := Read(strings.NewReader("timestamp,final_score\n"))
	if err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sessions.csv")

	if err := Append(path, []Record{rec(0, 10, 10, 8, [][]int{{8}})}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(path, []Record{rec(1, 20, 20, 16, [][]int{{16}})}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, skipped, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 || skipped != 0 {
		t.Fatalf("got %d records, %d skipped", len(got), skipped)
	}
}

func TestSummarizeSingleGame(t *testing.T) {
	s := Summarize([]Record{rec(0, 12, 12, 8, [][]int{{8, 4}, {0, 0}})})
	if s.Games != 1 || s.MedianScore != 12 || s.StdScore != 0 {
		t.Errorf("summary = %+v, want one game, median 12, std 0", s)
	}
	if math.Abs(s.MeanScore-12) > 1e-9 {
		t.Errorf("mean = %v, want 12", s.MeanScore)
	}
}

func TestSummarize(t *testing.T) {
	recs := []Record{
		rec(2, 30, 30, 16, [][]int{{2, 16}, {0, 0}}),
		rec(0, 10, 10, 8, [][]int{{8, 0}, {0, 0}}),
		rec(1, 20, 20, 8, [][]int{{2, 4}, {8, 0}}),
		rec(3, 40, 40, 32, [][]int{{4, 2}, {32, 0}}),
	}

	s := Summarize(recs)
	if s.Games != 4 || s.MaxScore != 40 {
		t.Errorf("games/max = %d/%d", s.Games, s.MaxScore)
	}
	if math.Abs(s.MeanScore-25) > 1e-9 || s.MedianScore != 25 {
		t.Errorf("mean/median = %v/%v, want 25/25", s.MeanScore, s.MedianScore)
	}
	if math.Abs(s.StdScore-math.Sqrt(125)) > 1e-9 {
		t.Errorf("std = %v", s.StdScore)
	}
	if s.HighestTiles[8] != 2 || s.HighestTiles[16] != 1 || s.HighestTiles[32] != 1 {
		t.Errorf("highest tiles = %v", s.HighestTiles)
	}
	if !slices.Equal(s.TileValues(), []int{8, 16, 32}) {
		t.Errorf("TileValues = %v", s.TileValues())
	}

	// Timestamp order is 10, 20, 30, 40.
	if s.BestIncreasing != 4 {
		t.Errorf("best increasing = %d, want 4", s.BestIncreasing)
	}
	if s.Window != 4 || s.RollingMean[1] != 15 || s.RollingMean[3] != 25 {
		t.Errorf("rolling = %v (window %d)", s.RollingMean, s.Window)
	}

	// On a 2x2 board every cell is a corner.
	if s.CornerPct != 100 {
		t.Errorf("corner pct = %v", s.CornerPct)
	}
	if s.MeanEmpty != 1.75 {
		t.Errorf("mean empty = %v, want 1.75", s.MeanEmpty)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Games != 0 || s.RollingMean != nil {
		t.Errorf("empty summary = %+v", s)
	}
}
