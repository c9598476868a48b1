package layout

// Breakpoint maps a minimum container width to a column count.
type Breakpoint struct {
	MinWidth int
	Columns  int
}

// Grid holds calculated grid dimensions.
type Grid struct {
	Columns     int
	ColumnWidth int
}

// Compute selects a column count from the breakpoint table and derives the
// column width for the given container width.
//
// Breakpoints are evaluated highest threshold first; the first entry whose
// MinWidth the container meets wins. The last entry acts as the fallback and
// should have MinWidth 0. Column width is floored so that
//
//	ColumnWidth*Columns + gutter*(Columns-1) <= containerWidth
//
// always holds; the rounding remainder becomes trailing space, never overflow.
func Compute(containerWidth int, breakpoints []Breakpoint, gutter int) Grid {
	columns := 1
	for _, bp := range breakpoints {
		if containerWidth >= bp.MinWidth {
			columns = bp.Columns
			break
		}
	}

	width := (containerWidth - gutter*(columns-1)) / columns

	return Grid{
		Columns:     columns,
		ColumnWidth: width,
	}
}

// CalculateVisibleRows computes how many grid rows fit in the given height,
// where each row occupies cellHeight lines plus a gutter line between rows.
func CalculateVisibleRows(containerHeight, cellHeight, gutter int) int {
	if cellHeight <= 0 {
		return 1
	}
	rows := (containerHeight + gutter) / (cellHeight + gutter)
	if rows < 1 {
		return 1
	}
	return rows
}

// CalculateRowOffset calculates the scroll offset (in rows) needed to keep
// the selected row visible within the viewport.
func CalculateRowOffset(selectedRow, totalRows, viewportRows int) int {
	if totalRows <= viewportRows {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selectedRow - viewportRows/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := totalRows - viewportRows
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
