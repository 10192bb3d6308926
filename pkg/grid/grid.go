package grid

import (
	"github.com/goliatone/go-formlayout/pkg/ids"
)

// DefaultColumns is the column count used when a row is appended to a grid
// that has no rows yet.
const DefaultColumns = 3

// Span is the number of grid columns and rows an origin cell occupies.
type Span struct {
	ColSpan int `json:"colSpan" yaml:"colSpan"`
	RowSpan int `json:"rowSpan" yaml:"rowSpan"`
}

// Unit is the span of an unmerged cell.
var Unit = Span{ColSpan: 1, RowSpan: 1}

// IsUnit reports whether the span covers a single position.
func (s Span) IsUnit() bool {
	return s.ColSpan <= 1 && s.RowSpan <= 1
}

// Cell is a single grid position. W is the payload placed in the cell; a nil
// Widget means the cell is empty. Widgets are treated as immutable values:
// grid operations copy the pointer, callers replace it to edit.
type Cell[W any] struct {
	ID             string `json:"id" yaml:"id"`
	RowIndex       int    `json:"rowIndex" yaml:"rowIndex"`
	ColIndex       int    `json:"colIndex" yaml:"colIndex"`
	Widget         *W     `json:"widget" yaml:"widget"`
	ColSpan        int    `json:"colSpan" yaml:"colSpan"`
	RowSpan        int    `json:"rowSpan" yaml:"rowSpan"`
	IsMergedOrigin bool   `json:"isMergedOrigin" yaml:"isMergedOrigin"`
	ClassName      string `json:"className,omitempty" yaml:"className,omitempty"`
}

// Span returns the normalised span of the cell. Missing or non-positive
// values read as 1.
func (c Cell[W]) Span() Span {
	span := Span{ColSpan: c.ColSpan, RowSpan: c.RowSpan}
	if span.ColSpan < 1 {
		span.ColSpan = 1
	}
	if span.RowSpan < 1 {
		span.RowSpan = 1
	}
	return span
}

// HasWidget reports whether a widget occupies the cell.
func (c Cell[W]) HasWidget() bool {
	return c.Widget != nil
}

// Row is an ordered list of cells.
type Row[W any] struct {
	ID    string    `json:"id" yaml:"id"`
	Cells []Cell[W] `json:"cells" yaml:"cells"`
}

// Grid is a rectangular array of rows. All rows hold the same number of
// cells. Grid values are never mutated by the methods in this package; every
// operation returns a fresh copy of the row and cell slices.
type Grid[W any] struct {
	Rows []Row[W] `json:"rows" yaml:"rows"`
}

// New builds a rows×cols grid of empty, unmerged cells. Identifiers come from
// gen using prefix (for example "id" on the canvas, "nested" inside tables).
func New[W any](rows, cols int, gen ids.Generator, prefix string) Grid[W] {
	gen = ids.OrDefault(gen)
	out := Grid[W]{Rows: make([]Row[W], 0, max(rows, 0))}
	for r := 0; r < rows; r++ {
		out.Rows = append(out.Rows, newRow[W](r, cols, gen, prefix))
	}
	return out
}

func newRow[W any](rowIndex, cols int, gen ids.Generator, prefix string) Row[W] {
	cells := make([]Cell[W], 0, max(cols, 0))
	for c := 0; c < cols; c++ {
		cells = append(cells, newCell[W](rowIndex, c, gen, prefix))
	}
	return Row[W]{ID: gen(prefix), Cells: cells}
}

func newCell[W any](rowIndex, colIndex int, gen ids.Generator, prefix string) Cell[W] {
	return Cell[W]{
		ID:             gen(prefix),
		RowIndex:       rowIndex,
		ColIndex:       colIndex,
		ColSpan:        1,
		RowSpan:        1,
		IsMergedOrigin: true,
	}
}

// Dimensions returns the row and column counts. The column count is taken
// from the first row.
func (g Grid[W]) Dimensions() (rows, cols int) {
	if len(g.Rows) == 0 {
		return 0, 0
	}
	return len(g.Rows), len(g.Rows[0].Cells)
}

// InBounds reports whether (row, col) addresses an existing cell.
func (g Grid[W]) InBounds(row, col int) bool {
	if row < 0 || row >= len(g.Rows) {
		return false
	}
	return col >= 0 && col < len(g.Rows[row].Cells)
}

// CellAt returns the cell stored at (row, col) without resolving merges.
func (g Grid[W]) CellAt(row, col int) (Cell[W], bool) {
	if !g.InBounds(row, col) {
		return Cell[W]{}, false
	}
	return g.Rows[row].Cells[col], true
}

// FindCell locates a cell by identifier.
func (g Grid[W]) FindCell(id string) (row, col int, ok bool) {
	if id == "" {
		return 0, 0, false
	}
	for r, gridRow := range g.Rows {
		for c, cell := range gridRow.Cells {
			if cell.ID == id {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Map returns a copy of the grid with fn applied to every cell. Row and cell
// slices are always reallocated so the receiver stays untouched.
func (g Grid[W]) Map(fn func(row, col int, cell Cell[W]) Cell[W]) Grid[W] {
	out := Grid[W]{Rows: make([]Row[W], len(g.Rows))}
	for r, gridRow := range g.Rows {
		cells := make([]Cell[W], len(gridRow.Cells))
		for c, cell := range gridRow.Cells {
			if fn != nil {
				cell = fn(r, c, cell)
			}
			cells[c] = cell
		}
		out.Rows[r] = Row[W]{ID: gridRow.ID, Cells: cells}
	}
	return out
}

// Clone returns a structural copy. Widget pointers are shared.
func (g Grid[W]) Clone() Grid[W] {
	return g.Map(nil)
}

// Walk visits every cell in row-major order.
func (g Grid[W]) Walk(fn func(row, col int, cell Cell[W])) {
	if fn == nil {
		return
	}
	for r, gridRow := range g.Rows {
		for c, cell := range gridRow.Cells {
			fn(r, c, cell)
		}
	}
}
