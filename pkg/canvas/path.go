package canvas

import (
	"strings"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// Step addresses a table widget by the cell holding it and its own id.
type Step struct {
	CellID   string `json:"cellId" yaml:"cellId"`
	WidgetID string `json:"widgetId" yaml:"widgetId"`
}

// Path walks from the main grid into nested tables. The empty path is the
// main grid.
type Path []Step

// Root reports whether p addresses the main grid.
func (p Path) Root() bool {
	return len(p) == 0
}

// Child returns p extended by one step without aliasing p.
func (p Path) Child(cellID, widgetID string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{CellID: cellID, WidgetID: widgetID})
}

// Equal reports whether both paths hold the same steps.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// ContainsWidget reports whether any step passes through widgetID.
func (p Path) ContainsWidget(widgetID string) bool {
	for _, step := range p {
		if step.WidgetID == widgetID {
			return true
		}
	}
	return false
}

// Key renders the path as a stable map key.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, step := range p {
		b.WriteString("/")
		b.WriteString(step.CellID)
		b.WriteString(":")
		b.WriteString(step.WidgetID)
	}
	return b.String()
}

func (p Path) clone() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p...)
}

func (p Path) isPrefixOfKey(key string) bool {
	prefix := p.Key()
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

// tableAt resolves the table addressed by path inside root.
func tableAt(root model.Table, path Path) (model.Table, bool) {
	current := root
	for _, step := range path {
		w, ok := model.CellWidget(current, step.CellID, step.WidgetID)
		if !ok || !w.IsTable() || w.NestedTable == nil {
			return model.Table{}, false
		}
		current = *w.NestedTable
	}
	return current, true
}

// replaceAt installs t at path and rebuilds every enclosing table by value.
func replaceAt(root model.Table, path Path, t model.Table) (model.Table, bool) {
	if len(path) == 0 {
		return t, true
	}
	step := path[0]
	w, ok := model.CellWidget(root, step.CellID, step.WidgetID)
	if !ok || !w.IsTable() || w.NestedTable == nil {
		return root, false
	}
	nested, ok := replaceAt(*w.NestedTable, path[1:], t)
	if !ok {
		return root, false
	}
	return model.UpdateCell(root, step.CellID, func(cell model.Cell) model.Cell {
		next := cell.Widget.WithNestedTable(nested)
		cell.Widget = &next
		return cell
	})
}
