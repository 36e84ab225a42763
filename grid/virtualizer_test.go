package grid

import "testing"

func TestVirtualizer_TotalSize(t *testing.T) {
	var v rowVirtualizer
	v.configure(103, 4, 176, 3)

	if got := v.rowCount(); got != 26 {
		t.Fatalf("expected 26 rows, got %d", got)
	}
	if got := v.totalSize(); got != 26*176 {
		t.Fatalf("expected total size %v, got %v", float32(26*176), got)
	}
}

func TestVirtualizer_EmptyCollection(t *testing.T) {
	var v rowVirtualizer
	v.configure(0, 4, 176, 3)

	if got := v.totalSize(); got != 0 {
		t.Fatalf("expected zero total size, got %v", got)
	}
	if rows := v.visibleRows(0, 600); rows != nil {
		t.Fatalf("expected no visible rows, got %d", len(rows))
	}
}

func TestVirtualizer_WindowWithOverscan(t *testing.T) {
	var v rowVirtualizer
	v.configure(103, 4, 176, 3)

	rows := v.visibleRows(0, 600)
	if len(rows) == 0 {
		t.Fatal("expected visible rows")
	}
	if rows[0].Index != 0 {
		t.Fatalf("expected first row 0, got %d", rows[0].Index)
	}
	// Viewport covers rows 0-3, overscan extends the end to row 6.
	if last := rows[len(rows)-1].Index; last != 6 {
		t.Fatalf("expected last row 6, got %d", last)
	}
	for i, r := range rows {
		if r.Start != float32(r.Index)*176 || r.Size != 176 {
			t.Errorf("row %d: bad geometry start=%v size=%v", i, r.Start, r.Size)
		}
	}
}

func TestVirtualizer_WindowClampedAtEnd(t *testing.T) {
	var v rowVirtualizer
	v.configure(103, 4, 176, 3)

	// Scrolled to the very bottom.
	offset := v.totalSize() - 600
	rows := v.visibleRows(offset, 600)
	if last := rows[len(rows)-1].Index; last != 25 {
		t.Fatalf("expected last row 25, got %d", last)
	}
	for _, r := range rows {
		if r.Index < 0 || r.Index > 25 {
			t.Fatalf("row index %d out of range", r.Index)
		}
	}
}

func TestVirtualizer_MemoizedByReference(t *testing.T) {
	var v rowVirtualizer
	v.configure(103, 4, 176, 3)

	a := v.visibleRows(300, 600)
	// Re-applying identical inputs must keep the memo valid.
	v.configure(103, 4, 176, 3)
	b := v.visibleRows(300, 600)

	if len(a) == 0 || len(b) != len(a) || &a[0] != &b[0] {
		t.Fatal("expected identical cached slice for unchanged inputs")
	}

	c := v.visibleRows(301, 600)
	if len(c) > 0 && len(a) > 0 && &c[0] == &a[0] {
		t.Fatal("expected recomputation after offset change")
	}

	// Changing an input invalidates the memo even at the same offset.
	v.configure(103, 5, 176, 3)
	d := v.visibleRows(300, 600)
	if len(d) > 0 && &d[0] == &a[0] {
		t.Fatal("expected recomputation after column change")
	}
}

func TestVirtualizer_RowForIndex(t *testing.T) {
	var v rowVirtualizer
	v.configure(103, 4, 176, 3)

	cases := []struct{ index, want int }{
		{0, 0},
		{3, 0},
		{4, 1},
		{100, 25},
		{102, 25},
	}
	for _, c := range cases {
		if got := v.rowForIndex(c.index); got != c.want {
			t.Errorf("rowForIndex(%d) = %d, want %d", c.index, got, c.want)
		}
	}
}
