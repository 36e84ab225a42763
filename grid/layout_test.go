package grid

import "testing"

func TestEffectiveColumns_ShrinksWithWidth(t *testing.T) {
	// floor((w + gap) / (minWidth + gap)): 3 columns fit at 400.
	if got := effectiveColumns(400, 4, 120, 16); got != 3 {
		t.Fatalf("expected 3 columns at width 400, got %d", got)
	}
	if got := effectiveColumns(260, 4, 120, 16); got != 2 {
		t.Fatalf("expected 2 columns at width 260, got %d", got)
	}
	if got := effectiveColumns(560, 4, 120, 16); got != 4 {
		t.Fatalf("expected 4 columns at width 560, got %d", got)
	}
}

func TestEffectiveColumns_ClampedToRequested(t *testing.T) {
	// Plenty of room for 10 columns, but only 4 requested.
	if got := effectiveColumns(2000, 4, 120, 16); got != 4 {
		t.Fatalf("expected requested cap of 4, got %d", got)
	}
}

func TestEffectiveColumns_NeverBelowOne(t *testing.T) {
	for _, width := range []float32{0, 10, 50, -100} {
		if got := effectiveColumns(width, 4, 120, 16); got != 1 {
			t.Fatalf("width %v: expected floor of 1 column, got %d", width, got)
		}
	}
}

func TestRowCountFor(t *testing.T) {
	cases := []struct {
		items, columns, want int
	}{
		{103, 4, 26},
		{100, 4, 25},
		{1, 4, 1},
		{0, 4, 0},
		{5, 1, 5},
	}
	for _, c := range cases {
		if got := rowCountFor(c.items, c.columns); got != c.want {
			t.Errorf("rowCountFor(%d, %d) = %d, want %d", c.items, c.columns, got, c.want)
		}
	}
}

func TestCellsForRow_PartialLastRow(t *testing.T) {
	cells := cellsForRow(25, 4, 103)
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells in last row, got %d", len(cells))
	}
	for i, want := range []int{100, 101, 102} {
		if cells[i].GlobalIndex != want {
			t.Errorf("cell %d: expected global index %d, got %d", i, want, cells[i].GlobalIndex)
		}
		if cells[i].ColumnIndex != i {
			t.Errorf("cell %d: expected column %d, got %d", i, i, cells[i].ColumnIndex)
		}
	}
}

func TestCellsForRow_StaleRowPastEnd(t *testing.T) {
	// A row index computed from an older, larger collection must not
	// produce out-of-range cells.
	if cells := cellsForRow(30, 4, 103); cells != nil {
		t.Fatalf("expected no cells for row past the end, got %d", len(cells))
	}
}

func TestRowBlockOffset_CentersBlock(t *testing.T) {
	// 4 columns of 160 + 3 gaps of 16 = 688 wide in a 800 container.
	got := rowBlockOffset(800, 4, 160, 16)
	if got != 56 {
		t.Fatalf("expected block offset 56, got %v", got)
	}
	// Never negative when the block overflows the container.
	if got := rowBlockOffset(300, 4, 160, 16); got != 0 {
		t.Fatalf("expected clamped offset 0, got %v", got)
	}
}
