package canvas

import (
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/selection"
)

// Editor edits one grid of a canvas: the main grid or a nested table reached
// through a path. Every nested level gets the same operations and its own
// selection. Editors hold no table of their own; each call resolves the
// path against the canvas's current value, so an editor whose table has been
// removed simply refuses every change.
type Editor struct {
	canvas *Canvas
	path   Path
}

// Path returns the location of the edited grid.
func (e *Editor) Path() Path {
	return e.path.clone()
}

// Table returns the edited grid. The second result is false when the path no
// longer resolves.
func (e *Editor) Table() (model.Table, bool) {
	c := e.canvas
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tableAt(c.table, e.path)
}

// Dimensions returns the row and column count of the edited grid.
func (e *Editor) Dimensions() (rows, cols int) {
	t, _ := e.Table()
	return t.Dimensions()
}

// Nested returns an editor for the table reached by following steps from this
// grid. It fails when any step does not resolve to a table widget.
func (e *Editor) Nested(steps ...Step) (*Editor, bool) {
	path := e.path.clone()
	for _, step := range steps {
		path = path.Child(step.CellID, step.WidgetID)
	}
	c := e.canvas
	c.mu.RLock()
	_, ok := tableAt(c.table, path)
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &Editor{canvas: c, path: path}, true
}

// NestedAt returns the editor for the table widget whose cell covers
// (row, col).
func (e *Editor) NestedAt(row, col int) (*Editor, bool) {
	t, ok := e.Table()
	if !ok {
		return nil, false
	}
	cell, ok := t.OriginCellAt(row, col)
	if !ok || cell.Widget == nil || !cell.Widget.IsTable() {
		return nil, false
	}
	return e.Nested(Step{CellID: cell.ID, WidgetID: cell.Widget.ID})
}

func (e *Editor) prefix() string {
	if e.path.Root() {
		return CellIDPrefix
	}
	return nestedPrefix
}

// mutate resolves the edited grid, applies fn and installs the rebuilt main
// grid in one assignment. Structural changes also reset focus and the
// selections at and below this grid.
func (e *Editor) mutate(op string, structural bool, fn func(model.Table) (model.Table, bool)) bool {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.mutateLocked(op, structural, fn)
}

func (e *Editor) mutateLocked(op string, structural bool, fn func(model.Table) (model.Table, bool)) bool {
	c := e.canvas
	t, ok := tableAt(c.table, e.path)
	if !ok {
		c.logger.Debug(op+" refused", "reason", "table not found", "path", e.path.Key())
		return false
	}
	next, ok := fn(t)
	if !ok {
		c.logger.Debug(op+" refused", "path", e.path.Key())
		return false
	}
	root, ok := replaceAt(c.table, e.path, next)
	if !ok {
		return false
	}
	c.table = root
	if structural {
		c.structuralReset(e.path)
	}
	return true
}

// AddRow appends a row holding as many cells as the current column count.
func (e *Editor) AddRow() bool {
	return e.mutate("add row", true, func(t model.Table) (model.Table, bool) {
		return t.AppendRow(e.canvas.ids, e.prefix()), true
	})
}

// AddColumn appends one empty cell to every row.
func (e *Editor) AddColumn() bool {
	return e.mutate("add column", true, func(t model.Table) (model.Table, bool) {
		if len(t.Rows) == 0 {
			return t, false
		}
		return t.AppendColumn(e.canvas.ids, e.prefix()), true
	})
}

// RemoveRow drops the last row unless only one is left.
func (e *Editor) RemoveRow() bool {
	return e.mutate("remove row", true, func(t model.Table) (model.Table, bool) {
		return t.RemoveLastRow()
	})
}

// RemoveColumn drops the last column unless only one is left.
func (e *Editor) RemoveColumn() bool {
	return e.mutate("remove column", true, func(t model.Table) (model.Table, bool) {
		return t.RemoveLastColumn()
	})
}

// Merge spans the inclusive rectangle from its top-left cell. Widgets in the
// other cells of the rectangle are discarded. Single cells, reversed corners
// and out of range rectangles are refused.
func (e *Editor) Merge(originRow, originCol, endRow, endCol int) bool {
	rect := selection.Rect{R0: originRow, R1: endRow, C0: originCol, C1: endCol}
	return e.mutate("merge", true, func(t model.Table) (model.Table, bool) {
		if !rect.CanMerge() {
			return t, false
		}
		return t.Merge(originRow, originCol, endRow, endCol)
	})
}

// MergeSelection merges the current selection when it forms a solid
// rectangle of more than one cell.
func (e *Editor) MergeSelection() bool {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	rect, ok := c.selections[e.path.Key()].Mergeable()
	if !ok {
		c.logger.Debug("merge refused", "reason", "selection is not a rectangle", "path", e.path.Key())
		return false
	}
	return e.mutateLocked("merge", true, func(t model.Table) (model.Table, bool) {
		return t.Merge(rect.R0, rect.C0, rect.R1, rect.C1)
	})
}

// Unmerge splits the span covering (row, col). The origin keeps its widget.
func (e *Editor) Unmerge(row, col int) bool {
	return e.mutate("unmerge", true, func(t model.Table) (model.Table, bool) {
		return t.Unmerge(row, col)
	})
}

// Selection returns the selection of this grid.
func (e *Editor) Selection() selection.Set {
	c := e.canvas
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selections[e.path.Key()]
}

// CanMergeSelection reports whether MergeSelection would succeed.
func (e *Editor) CanMergeSelection() bool {
	_, ok := e.Selection().Mergeable()
	return ok
}

// ClearSelection empties the selection of this grid.
func (e *Editor) ClearSelection() {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selections, e.path.Key())
}

// ClickCell applies a click on the cell covering (row, col). A modifier click
// toggles the cell in this grid's selection. Any other click clears that
// selection and moves the focus to the most specific target the click
// reached; clicks landing on a table widget leave the focus alone so the
// nested grid can handle them.
func (e *Editor) ClickCell(row, col int, hit Hit) bool {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := tableAt(c.table, e.path)
	if !ok {
		return false
	}
	origin, ok := t.OriginCellAt(row, col)
	if !ok {
		c.logger.Debug("click ignored", "row", row, "col", col, "path", e.path.Key())
		return false
	}
	key := e.path.Key()
	if hit.Modifier {
		coord := selection.Coord{Row: origin.RowIndex, Col: origin.ColIndex}
		next := c.selections[key].Toggle(coord)
		if next.Empty() {
			delete(c.selections, key)
		} else {
			c.selections[key] = next
		}
		return true
	}
	delete(c.selections, key)

	if origin.Widget != nil && origin.Widget.IsTable() && hit.onWidget() {
		return false
	}
	target, element := resolveTarget(origin.Widget, hit)
	focus := Focus{
		Path:        e.path.clone(),
		CellID:      origin.ID,
		Target:      target,
		ElementKey:  element,
		OptionIndex: -1,
	}
	if target == TargetElement {
		if index, ok := ParseOptionElementKey(element); ok && origin.Widget.Type == model.WidgetRadio {
			focus.OptionIndex = index
		}
	}
	c.focus = focus
	return true
}

// PlaceWidget creates a default widget of type wt in the cell at (row, col).
// It only succeeds on an origin cell that holds no widget.
func (e *Editor) PlaceWidget(row, col int, wt model.WidgetType) (model.Widget, bool) {
	var placed model.Widget
	ok := e.mutate("place widget", false, func(t model.Table) (model.Table, bool) {
		cell, ok := t.CellAt(row, col)
		if !ok || !cell.IsMergedOrigin || cell.Widget != nil {
			return t, false
		}
		w, ok := e.canvas.widgets.Create(wt, e.canvas.ids)
		if !ok {
			return t, false
		}
		placed = w
		return model.UpdateCell(t, cell.ID, func(cell model.Cell) model.Cell {
			cell.Widget = &w
			return cell
		})
	})
	return placed, ok
}

// DropWidget places the widget named by a palette drag payload into the cell
// with cellID.
func (e *Editor) DropWidget(cellID, payload string) (model.Widget, bool) {
	wt, ok := e.canvas.widgets.ParseDrop(payload)
	if !ok {
		e.canvas.logger.Debug("drop refused", "reason", "unknown widget type", "payload", payload)
		return model.Widget{}, false
	}
	t, ok := e.Table()
	if !ok {
		return model.Widget{}, false
	}
	row, col, ok := t.FindCell(cellID)
	if !ok {
		return model.Widget{}, false
	}
	return e.PlaceWidget(row, col, wt)
}

// RemoveWidget empties the cell with cellID. When that cell held the focus,
// the focus is cleared. Removing a table also drops the focus and selections
// held inside its nested grids.
func (e *Editor) RemoveWidget(cellID string) bool {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed *model.Widget
	ok := e.mutateLocked("remove widget", false, func(t model.Table) (model.Table, bool) {
		r, col, ok := t.FindCell(cellID)
		if !ok || t.Rows[r].Cells[col].Widget == nil {
			return t, false
		}
		removed = t.Rows[r].Cells[col].Widget
		return model.UpdateCell(t, cellID, func(cell model.Cell) model.Cell {
			cell.Widget = nil
			return cell
		})
	})
	if !ok {
		return false
	}
	if removed.IsTable() {
		c.structuralReset(e.path.Child(cellID, removed.ID))
	}
	if c.focus.CellID == cellID && c.focus.Path.Equal(e.path) {
		c.focus = noFocus()
	}
	c.forgetWidget(*removed)
	return true
}

// MoveWidget transfers w from one cell of this grid to another. The source
// is emptied and the destination overwritten without checking that it was
// empty. Identical cells are a no-op. Moving a table resets the state held
// inside it, as RemoveWidget does.
func (e *Editor) MoveWidget(fromCellID, toCellID string, w model.Widget) bool {
	if fromCellID == toCellID {
		return false
	}
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := e.mutateLocked("move widget", false, func(t model.Table) (model.Table, bool) {
		if _, _, ok := t.FindCell(fromCellID); !ok {
			return t, false
		}
		if _, _, ok := t.FindCell(toCellID); !ok {
			return t, false
		}
		moved := w.Clone()
		return t.Map(func(_, _ int, cell model.Cell) model.Cell {
			switch cell.ID {
			case fromCellID:
				cell.Widget = nil
			case toCellID:
				cell.Widget = &moved
			}
			return cell
		}), true
	})
	if !ok {
		return false
	}
	if w.IsTable() {
		c.structuralReset(e.path.Child(fromCellID, w.ID))
	}
	if c.focus.CellID == fromCellID && c.focus.Path.Equal(e.path) {
		c.focus = noFocus()
	}
	return true
}

// SetCellClassName sets the free-form class name of the cell with cellID.
func (e *Editor) SetCellClassName(cellID, value string) bool {
	return e.mutate("set cell class", false, func(t model.Table) (model.Table, bool) {
		return model.UpdateCell(t, cellID, func(cell model.Cell) model.Cell {
			cell.ClassName = trimClass(value)
			return cell
		})
	})
}

// UpdateNestedTable replaces the table owned by the table widget widgetID in
// the cell cellID.
func (e *Editor) UpdateNestedTable(cellID, widgetID string, nested model.Table) bool {
	return e.mutate("update nested table", false, func(t model.Table) (model.Table, bool) {
		w, ok := model.CellWidget(t, cellID, widgetID)
		if !ok || !w.IsTable() {
			return t, false
		}
		return model.UpdateCell(t, cellID, func(cell model.Cell) model.Cell {
			next := w.WithNestedTable(nested)
			cell.Widget = &next
			return cell
		})
	})
}

// SelectRadioOption focuses option index of the radio in cellID and previews
// the choice in the widget's instance scope, leaving exported values alone.
func (e *Editor) SelectRadioOption(cellID string, index int) bool {
	c := e.canvas
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := tableAt(c.table, e.path)
	if !ok {
		return false
	}
	w, ok := model.CellWidget(t, cellID, "")
	if !ok || w.Type != model.WidgetRadio || index < 0 || index >= len(w.Options) {
		return false
	}
	c.focus = Focus{
		Path:        e.path.clone(),
		CellID:      cellID,
		Target:      TargetElement,
		ElementKey:  OptionElementKey(index),
		OptionIndex: index,
	}
	c.bindings.SelectOptionIndex(w.Options, w.OptionBindings, index, w.ID)
	return true
}
