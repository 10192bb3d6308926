package grid

// OriginCellAt returns the cell whose span covers (row, col). Rows 0..row are
// scanned in order and, within each row, columns 0..col; the first cell whose
// rectangle contains the target wins. The second result is false only when
// nothing covers the position, which happens for out of range coordinates.
func (g Grid[W]) OriginCellAt(row, col int) (Cell[W], bool) {
	if row < 0 || col < 0 {
		return Cell[W]{}, false
	}
	for r := 0; r <= row && r < len(g.Rows); r++ {
		cells := g.Rows[r].Cells
		for c := 0; c <= col && c < len(cells); c++ {
			cell := cells[c]
			span := cell.Span()
			endRow := r + span.RowSpan - 1
			endCol := c + span.ColSpan - 1
			if row <= endRow && col <= endCol {
				return cell, true
			}
		}
	}
	return Cell[W]{}, false
}

// SpanAt returns the span of the origin covering (row, col), or Unit when no
// origin is found.
func (g Grid[W]) SpanAt(row, col int) Span {
	origin, ok := g.OriginCellAt(row, col)
	if !ok {
		return Unit
	}
	return origin.Span()
}

// ShouldSkipRendering reports whether (row, col) is covered by another cell's
// span and must not be emitted as an independent cell. Positions without an
// origin are skipped as well.
func (g Grid[W]) ShouldSkipRendering(row, col int) bool {
	origin, ok := g.OriginCellAt(row, col)
	if !ok {
		return true
	}
	return origin.RowIndex != row || origin.ColIndex != col
}

// IsMerged reports whether (row, col) belongs to a span larger than 1×1.
func (g Grid[W]) IsMerged(row, col int) bool {
	return !g.SpanAt(row, col).IsUnit()
}

// CanMerge reports whether Merge would accept the rectangle: ordered corners
// inside the grid.
func (g Grid[W]) CanMerge(originRow, originCol, endRow, endCol int) bool {
	if originRow > endRow || originCol > endCol {
		return false
	}
	return g.InBounds(originRow, originCol) && g.InBounds(endRow, endCol)
}

// Merge turns the inclusive rectangle into a single span anchored at its
// top-left cell. Every other cell in range drops its widget; this is
// destructive. Cells outside the rectangle are untouched. Invalid rectangles
// return the grid unchanged and false.
func (g Grid[W]) Merge(originRow, originCol, endRow, endCol int) (Grid[W], bool) {
	if !g.CanMerge(originRow, originCol, endRow, endCol) {
		return g, false
	}
	span := Span{
		ColSpan: endCol - originCol + 1,
		RowSpan: endRow - originRow + 1,
	}
	out := g.Map(func(r, c int, cell Cell[W]) Cell[W] {
		if r < originRow || r > endRow || c < originCol || c > endCol {
			return cell
		}
		if r == originRow && c == originCol {
			cell.ColSpan = span.ColSpan
			cell.RowSpan = span.RowSpan
			cell.IsMergedOrigin = true
			return cell
		}
		cell.ColSpan = 1
		cell.RowSpan = 1
		cell.IsMergedOrigin = false
		cell.Widget = nil
		return cell
	})
	return out, true
}

// Unmerge splits the span covering (row, col) back into independent 1×1
// cells. The origin keeps its widget; every other cell of the former span is
// left empty. A 1×1 origin, or no origin at all, is a no-op reported as false.
func (g Grid[W]) Unmerge(row, col int) (Grid[W], bool) {
	origin, ok := g.OriginCellAt(row, col)
	if !ok {
		return g, false
	}
	span := origin.Span()
	if span.IsUnit() {
		return g, false
	}
	r0, c0 := origin.RowIndex, origin.ColIndex
	originWidget := origin.Widget
	out := g.Map(func(r, c int, cell Cell[W]) Cell[W] {
		if r < r0 || r >= r0+span.RowSpan || c < c0 || c >= c0+span.ColSpan {
			return cell
		}
		cell.ColSpan = 1
		cell.RowSpan = 1
		cell.IsMergedOrigin = true
		if r == r0 && c == c0 {
			cell.Widget = originWidget
		} else {
			cell.Widget = nil
		}
		return cell
	})
	return out, true
}
