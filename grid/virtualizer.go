package grid

import "math"

// VirtualRow describes one row the grid must materialize right now:
// its index, its pixel offset from the top of the content, and its
// height including the inter-row gap.
type VirtualRow struct {
	Index int
	Start float32
	Size  float32
}

// rowVirtualizer decides which rows exist in the widget tree. It is a
// pure function of (itemCount, columns, rowHeight, overscan, viewport),
// memoized so that consecutive computations with unchanged inputs
// return the identical slice.
type rowVirtualizer struct {
	itemCount int
	columns   int
	rowHeight float32
	overscan  int

	memoOffset float32
	memoHeight float32
	memoRows   []VirtualRow
	memoValid  bool
}

// configure updates the virtualizer inputs, invalidating the memoized
// window only when something actually changed.
func (v *rowVirtualizer) configure(itemCount, columns int, rowHeight float32, overscan int) {
	if columns < 1 {
		columns = 1
	}
	if itemCount < 0 {
		itemCount = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	if itemCount == v.itemCount && columns == v.columns && rowHeight == v.rowHeight && overscan == v.overscan {
		return
	}
	v.itemCount = itemCount
	v.columns = columns
	v.rowHeight = rowHeight
	v.overscan = overscan
	v.memoValid = false
}

func (v *rowVirtualizer) rowCount() int {
	return rowCountFor(v.itemCount, v.columns)
}

// totalSize is the full logical scrollable extent. It is independent of
// how many rows are materialized so the scrollbar always reflects the
// whole collection.
func (v *rowVirtualizer) totalSize() float32 {
	return float32(v.rowCount()) * v.rowHeight
}

func (v *rowVirtualizer) rowStart(row int) float32 {
	return float32(row) * v.rowHeight
}

// rowForIndex returns the row containing the given global item index.
func (v *rowVirtualizer) rowForIndex(index int) int {
	if index < 0 || v.columns < 1 {
		return 0
	}
	return index / v.columns
}

// visibleRows returns the ordered rows whose span intersects the
// viewport expanded by the overscan margin. The result is cached and
// returned by reference until an input changes.
func (v *rowVirtualizer) visibleRows(scrollOffset, viewportHeight float32) []VirtualRow {
	if v.memoValid && scrollOffset == v.memoOffset && viewportHeight == v.memoHeight {
		return v.memoRows
	}

	rows := v.computeRows(scrollOffset, viewportHeight)
	v.memoOffset = scrollOffset
	v.memoHeight = viewportHeight
	v.memoRows = rows
	v.memoValid = true
	return rows
}

func (v *rowVirtualizer) computeRows(scrollOffset, viewportHeight float32) []VirtualRow {
	count := v.rowCount()
	if count == 0 || v.rowHeight <= 0 {
		return nil
	}

	margin := float32(v.overscan) * v.rowHeight
	lo := scrollOffset - margin
	hi := scrollOffset + viewportHeight + margin

	first := int(math.Floor(float64(lo / v.rowHeight)))
	last := int(math.Ceil(float64(hi/v.rowHeight))) - 1
	if first < 0 {
		first = 0
	}
	if last >= count {
		last = count - 1
	}
	if last < first {
		return nil
	}

	rows := make([]VirtualRow, 0, last-first+1)
	for r := first; r <= last; r++ {
		rows = append(rows, VirtualRow{
			Index: r,
			Start: v.rowStart(r),
			Size:  v.rowHeight,
		})
	}
	return rows
}
