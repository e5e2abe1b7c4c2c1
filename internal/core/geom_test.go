package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(2, 3, 10, 4)
	if r.Right() != 12 || r.Bottom() != 7 {
		t.Errorf("Right/Bottom = %d/%d, expected 12/7", r.Right(), r.Bottom())
	}
	if x, y := r.Center(); x != 7 || y != 5 {
		t.Errorf("Center = (%d, %d), expected (7, 5)", x, y)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{3, 3, 3, 3},
	}
	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestColumnActions(t *testing.T) {
	for col := range MaxDirectColumns {
		a := ColumnAction(col)
		got, ok := a.Column()
		if !ok || got != col {
			t.Errorf("ColumnAction(%d).Column() = (%d, %v)", col, got, ok)
		}
	}
	if ColumnAction(MaxDirectColumns) != ActionNone || ColumnAction(-1) != ActionNone {
		t.Error("out-of-range column should map to ActionNone")
	}
	if _, ok := ActionDrop.Column(); ok {
		t.Error("ActionDrop is not a column action")
	}
	if ActionColumn3.String() != "Column3" {
		t.Errorf("String() = %q", ActionColumn3.String())
	}

	f := NewInputFrame()
	f.Set(ActionColumn4)
	if col, ok := f.DirectColumn(); !ok || col != 3 {
		t.Errorf("DirectColumn = (%d, %v), expected (3, true)", col, ok)
	}
	f.Clear()
	if f.Has(ActionColumn4) {
		t.Error("Clear did not reset actions")
	}
}
