package sessionlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// timeLayouts are accepted on import; RFC 3339 is always written.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Write writes a header and one row per record.
func Write(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r Record) []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		strconv.Itoa(r.FinalScore),
		strconv.Itoa(r.HighScore),
		strconv.Itoa(r.HighestTile),
		FormatGrid(r.Grid),
	}
}

// Append adds records to path, writing the header first if the file is new.
func Append(path string, recs []Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if fresh {
		return Write(file, recs)
	}

	cw := csv.NewWriter(file)
	for _, r := range recs {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a session CSV. Columns are located by header name, so extra
// columns are ignored. Rows with a malformed grid are skipped and counted.
func Read(r io.Reader) (recs []Record, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	idx := make([]int, len(Header))
	for i, name := range Header {
		idx[i] = slices.Index(head, name)
		if idx[i] < 0 {
			return nil, 0, fmt.Errorf("sessionlog: missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return recs, skipped, fmt.Errorf("line %d: %w", line, err)
		}

		rec, ok := parseRow(fields, idx)
		if !ok {
			skipped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, skipped, nil
}

func parseRow(fields []string, idx []int) (Record, bool) {
	get := func(i int) string {
		if idx[i] >= len(fields) {
			return ""
		}
		return fields[idx[i]]
	}

	var rec Record
	ts, ok := parseTime(get(0))
	if !ok {
		return rec, false
	}
	rec.Timestamp = ts

	nums := []*int{&rec.FinalScore, &rec.HighScore, &rec.HighestTile}
	for i, dst := range nums {
		v, err := strconv.Atoi(get(i + 1))
		if err != nil {
			return rec, false
		}
		*dst = v
	}

	grid, err := ParseGrid(get(4))
	if err != nil {
		return rec, false
	}
	rec.Grid = grid
	return rec, true
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReadFile reads a session CSV from disk.
func ReadFile(path string) ([]Record, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(file)
}
