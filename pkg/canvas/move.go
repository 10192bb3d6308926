package canvas

import (
	"github.com/goliatone/go-formlayout/pkg/model"
)

// MovePayload carries a widget between grids during a drag. It holds a copy
// of the widget, never a reference into the canvas.
type MovePayload struct {
	Path   Path         `json:"path,omitempty"`
	CellID string       `json:"cellId"`
	Widget model.Widget `json:"widget"`
}

// PickUp starts a drag of the widget in cellID.
func (e *Editor) PickUp(cellID string) (MovePayload, bool) {
	t, ok := e.Table()
	if !ok {
		return MovePayload{}, false
	}
	w, ok := model.CellWidget(t, cellID, "")
	if !ok {
		return MovePayload{}, false
	}
	return MovePayload{Path: e.path.clone(), CellID: cellID, Widget: w.Clone()}, true
}

// DropMove completes a drag into the cell toCellID of this grid. Within one
// grid it behaves like MoveWidget. Across grids the source cell is emptied
// and the destination receives the widget in a single update. A table widget
// cannot be dropped inside its own nested table, and a source that no longer
// holds the dragged widget refuses the drop.
func (e *Editor) DropMove(p MovePayload, toCellID string) bool {
	if p.Path.Equal(e.path) {
		return e.MoveWidget(p.CellID, toCellID, p.Widget)
	}
	c := e.canvas
	if e.path.ContainsWidget(p.Widget.ID) {
		c.logger.Debug("move refused", "reason", "widget dropped into itself", "widget", p.Widget.ID)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	source, ok := tableAt(c.table, p.Path)
	if !ok {
		return false
	}
	if _, ok := model.CellWidget(source, p.CellID, p.Widget.ID); !ok {
		c.logger.Debug("move refused", "reason", "source changed", "cell", p.CellID)
		return false
	}
	source, _ = model.UpdateCell(source, p.CellID, func(cell model.Cell) model.Cell {
		cell.Widget = nil
		return cell
	})
	root, ok := replaceAt(c.table, p.Path, source)
	if !ok {
		return false
	}

	dest, ok := tableAt(root, e.path)
	if !ok {
		return false
	}
	moved := p.Widget.Clone()
	dest, ok = model.UpdateCell(dest, toCellID, func(cell model.Cell) model.Cell {
		cell.Widget = &moved
		return cell
	})
	if !ok {
		return false
	}
	root, ok = replaceAt(root, e.path, dest)
	if !ok {
		return false
	}
	c.table = root
	if p.Widget.IsTable() {
		c.structuralReset(p.Path.Child(p.CellID, p.Widget.ID))
	}
	if c.focus.CellID == p.CellID && c.focus.Path.Equal(p.Path) {
		c.focus = noFocus()
	}
	return true
}
