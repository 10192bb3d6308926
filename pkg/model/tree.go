package model

// FindWidget searches t and every nested table for the widget with id.
func FindWidget(t Table, id string) (Widget, bool) {
	if id == "" {
		return Widget{}, false
	}
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Widget == nil {
				continue
			}
			if cell.Widget.ID == id {
				return *cell.Widget, true
			}
			if cell.Widget.NestedTable != nil {
				if found, ok := FindWidget(*cell.Widget.NestedTable, id); ok {
					return found, true
				}
			}
		}
	}
	return Widget{}, false
}

// UpdateWidget rewrites the widget with id wherever it lives in t, nested
// tables included, and rebuilds every enclosing table by value. The second
// result is false when no widget matched.
func UpdateWidget(t Table, id string, fn func(Widget) Widget) (Table, bool) {
	if id == "" || fn == nil {
		return t, false
	}
	updated := false
	out := t.Map(func(_, _ int, cell Cell) Cell {
		if updated || cell.Widget == nil {
			return cell
		}
		if cell.Widget.ID == id {
			next := fn(cell.Widget.Clone())
			cell.Widget = &next
			updated = true
			return cell
		}
		if cell.Widget.NestedTable != nil {
			if nested, ok := UpdateWidget(*cell.Widget.NestedTable, id, fn); ok {
				next := cell.Widget.WithNestedTable(nested)
				cell.Widget = &next
				updated = true
			}
		}
		return cell
	})
	if !updated {
		return t, false
	}
	return out, true
}

// UpdateCell rewrites the cell with id in t only (nested tables are not
// searched). The second result is false when no cell matched.
func UpdateCell(t Table, id string, fn func(Cell) Cell) (Table, bool) {
	if _, _, ok := t.FindCell(id); !ok || fn == nil {
		return t, false
	}
	return t.Map(func(_, _ int, cell Cell) Cell {
		if cell.ID == id {
			return fn(cell)
		}
		return cell
	}), true
}

// CellWidget returns the widget in the cell with id when the cell holds one
// whose id is widgetID. An empty widgetID matches any widget.
func CellWidget(t Table, cellID, widgetID string) (Widget, bool) {
	r, c, ok := t.FindCell(cellID)
	if !ok {
		return Widget{}, false
	}
	cell := t.Rows[r].Cells[c]
	if cell.Widget == nil {
		return Widget{}, false
	}
	if widgetID != "" && cell.Widget.ID != widgetID {
		return Widget{}, false
	}
	return *cell.Widget, true
}

// WalkWidgets visits every widget of t in row-major order, descending into a
// nested table right after visiting the table widget itself. depth is 0 for
// widgets placed directly in t.
func WalkWidgets(t Table, fn func(w Widget, depth int)) {
	walkWidgets(t, 0, fn)
}

func walkWidgets(t Table, depth int, fn func(Widget, int)) {
	if fn == nil {
		return
	}
	t.Walk(func(_, _ int, cell Cell) {
		if cell.Widget == nil {
			return
		}
		fn(*cell.Widget, depth)
		if cell.Widget.NestedTable != nil {
			walkWidgets(*cell.Widget.NestedTable, depth+1, fn)
		}
	})
}
