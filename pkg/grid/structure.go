package grid

import "github.com/goliatone/go-formlayout/pkg/ids"

// AppendRow adds an empty row at the bottom using the current column count,
// or DefaultColumns when the grid has no rows.
func (g Grid[W]) AppendRow(gen ids.Generator, prefix string) Grid[W] {
	gen = ids.OrDefault(gen)
	cols := DefaultColumns
	if len(g.Rows) > 0 {
		cols = len(g.Rows[0].Cells)
	}
	out := g.Clone()
	out.Rows = append(out.Rows, newRow[W](len(g.Rows), cols, gen, prefix))
	return out
}

// AppendColumn adds one empty cell to the end of every row. A grid without
// rows is returned unchanged.
func (g Grid[W]) AppendColumn(gen ids.Generator, prefix string) Grid[W] {
	if len(g.Rows) == 0 {
		return g
	}
	gen = ids.OrDefault(gen)
	out := Grid[W]{Rows: make([]Row[W], len(g.Rows))}
	for r, row := range g.Rows {
		cells := make([]Cell[W], len(row.Cells), len(row.Cells)+1)
		copy(cells, row.Cells)
		cells = append(cells, newCell[W](r, len(row.Cells), gen, prefix))
		out.Rows[r] = Row[W]{ID: row.ID, Cells: cells}
	}
	return out
}

// RemoveLastRow drops the bottom row. The grid never shrinks below one row;
// the second result reports whether a row was removed. Spans that reached
// into the removed row are shortened.
func (g Grid[W]) RemoveLastRow() (Grid[W], bool) {
	if len(g.Rows) <= 1 {
		return g, false
	}
	trimmed := Grid[W]{Rows: g.Rows[:len(g.Rows)-1]}
	return trimmed.clampSpans(), true
}

// RemoveLastColumn drops the rightmost cell of every row. The grid never
// shrinks below one column; the second result reports whether a column was
// removed. Spans that reached into the removed column are shortened.
func (g Grid[W]) RemoveLastColumn() (Grid[W], bool) {
	_, cols := g.Dimensions()
	if cols <= 1 {
		return g, false
	}
	out := Grid[W]{Rows: make([]Row[W], len(g.Rows))}
	for r, row := range g.Rows {
		end := len(row.Cells) - 1
		if end < 0 {
			end = 0
		}
		out.Rows[r] = Row[W]{ID: row.ID, Cells: row.Cells[:end]}
	}
	return out.clampSpans(), true
}

// clampSpans copies the grid and shortens any span extending past its edges.
func (g Grid[W]) clampSpans() Grid[W] {
	rows := len(g.Rows)
	return g.Map(func(r, c int, cell Cell[W]) Cell[W] {
		cols := len(g.Rows[r].Cells)
		span := cell.Span()
		if r+span.RowSpan > rows {
			cell.RowSpan = rows - r
		}
		if c+span.ColSpan > cols {
			cell.ColSpan = cols - c
		}
		return cell
	})
}
