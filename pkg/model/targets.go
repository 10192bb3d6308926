package model

// BindingTarget is one non-table widget in rendered document order together
// with the binding expressions an exporter stamps onto its markup.
type BindingTarget struct {
	WidgetID       string     `json:"widgetId" yaml:"widgetId"`
	Type           WidgetType `json:"type" yaml:"type"`
	ValueBinding   string     `json:"valueBinding,omitempty" yaml:"valueBinding,omitempty"`
	OptionBindings []string   `json:"optionBindings,omitempty" yaml:"optionBindings,omitempty"`
	// Depth is 0 for widgets placed on t itself and grows with each nested table.
	Depth int `json:"depth" yaml:"depth"`
}

// BindingTargets lists the non-table widgets of t in the order their markup
// is matched by an exporter: first the widgets placed directly on t in
// row-major order, then the contents of each nested table in the row-major
// order of the table widgets that own them. Inside nested tables a deeper
// table is expanded in place, the way its cells appear in the markup.
// Positions covered by another span are skipped.
func BindingTargets(t Table) []BindingTarget {
	var out []BindingTarget
	collectTargets(t, 0, &out)
	return out
}

func collectTargets(t Table, depth int, out *[]BindingTarget) {
	var tables []Table
	for r, row := range t.Rows {
		for c, cell := range row.Cells {
			if cell.Widget == nil || t.ShouldSkipRendering(r, c) {
				continue
			}
			w := cell.Widget
			if w.IsTable() {
				if w.NestedTable == nil {
					continue
				}
				if depth == 0 {
					tables = append(tables, *w.NestedTable)
				} else {
					collectTargets(*w.NestedTable, depth+1, out)
				}
				continue
			}
			target := BindingTarget{
				WidgetID:     w.ID,
				Type:         w.Type,
				ValueBinding: w.ValueBinding,
				Depth:        depth,
			}
			if len(w.OptionBindings) > 0 {
				target.OptionBindings = append([]string(nil), w.OptionBindings...)
			}
			*out = append(*out, target)
		}
	}
	for _, nested := range tables {
		collectTargets(nested, depth+1, out)
	}
}
