package grid

import "math"

// effectiveColumns derives the rendered column count from the container
// width, the requested maximum, the minimum cell width and the gap. A
// zero or negative width still yields one column.
func effectiveColumns(containerWidth float32, requested int, minItemWidth, gap float32) int {
	if requested < 1 {
		requested = 1
	}
	if minItemWidth <= 0 {
		return requested
	}

	fit := int(math.Floor(float64((containerWidth + gap) / (minItemWidth + gap))))
	if fit < 1 {
		fit = 1
	}
	if fit > requested {
		fit = requested
	}
	return fit
}

// rowCountFor is ceil(itemCount / columns) with the usual guards.
func rowCountFor(itemCount, columns int) int {
	if itemCount <= 0 {
		return 0
	}
	if columns < 1 {
		columns = 1
	}
	return (itemCount + columns - 1) / columns
}

// cell identifies one item slot inside a virtual row.
type cell struct {
	GlobalIndex int
	ColumnIndex int
	RowIndex    int
}

// cellsForRow maps a virtual row to the item indices it contains. The
// final row may be partial; indices beyond itemCount yield no cell, so
// a stale row computed against a longer list degrades gracefully.
func cellsForRow(rowIndex, columns, itemCount int) []cell {
	if rowIndex < 0 || columns < 1 || itemCount <= 0 {
		return nil
	}

	start := rowIndex * columns
	if start >= itemCount {
		return nil
	}
	end := start + columns
	if end > itemCount {
		end = itemCount
	}

	cells := make([]cell, 0, end-start)
	for i := start; i < end; i++ {
		cells = append(cells, cell{
			GlobalIndex: i,
			ColumnIndex: i - start,
			RowIndex:    rowIndex,
		})
	}
	return cells
}

// rowBlockOffset centers the cell block horizontally inside the
// container, leaving symmetric margins when the columns do not fill the
// full width.
func rowBlockOffset(containerWidth float32, columns int, itemWidth, gap float32) float32 {
	if columns < 1 {
		return 0
	}
	block := float32(columns)*itemWidth + float32(columns-1)*gap
	offset := (containerWidth - block) / 2
	if offset < 0 {
		return 0
	}
	return offset
}
