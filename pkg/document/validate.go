package document

import (
	"fmt"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// Validate checks that t is a consistent grid: at least one row, equal row
// lengths, cell indices matching their positions, spans of at least one that
// stay inside the grid, known widget types, and nested tables only on table
// widgets. Nested tables are validated recursively.
func Validate(t model.Table) error {
	return validateTable(t, "layout")
}

func validateTable(t model.Table, where string) error {
	if len(t.Rows) == 0 {
		return invalid(where, "no rows")
	}
	cols := len(t.Rows[0].Cells)
	if cols == 0 {
		return invalid(where, "no columns")
	}
	seen := make(map[string]struct{}, len(t.Rows)*cols)
	for r, row := range t.Rows {
		if len(row.Cells) != cols {
			return invalid(where, fmt.Sprintf("row %d has %d cells, want %d", r, len(row.Cells), cols))
		}
		for c, cell := range row.Cells {
			at := fmt.Sprintf("%s cell (%d,%d)", where, r, c)
			if cell.ID == "" {
				return invalid(at, "missing id")
			}
			if _, dup := seen[cell.ID]; dup {
				return invalid(at, fmt.Sprintf("duplicate id %q", cell.ID))
			}
			seen[cell.ID] = struct{}{}
			if cell.RowIndex != r || cell.ColIndex != c {
				return invalid(at, fmt.Sprintf("indices (%d,%d) do not match position", cell.RowIndex, cell.ColIndex))
			}
			if cell.ColSpan < 1 || cell.RowSpan < 1 {
				return invalid(at, "span below 1")
			}
			if r+cell.RowSpan > len(t.Rows) || c+cell.ColSpan > cols {
				return invalid(at, "span exceeds grid")
			}
			if cell.Widget != nil {
				if err := validateWidget(*cell.Widget, at); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateWidget(w model.Widget, where string) error {
	if w.ID == "" {
		return invalid(where, "widget without id")
	}
	if !w.Type.Valid() {
		return invalid(where, fmt.Sprintf("unknown widget type %q", w.Type))
	}
	if len(w.OptionBindings) > len(w.Options) {
		return invalid(where, "more option bindings than options")
	}
	if w.NestedTable == nil {
		return nil
	}
	if !w.IsTable() {
		return invalid(where, fmt.Sprintf("%s widget owns a nested table", w.Type))
	}
	return validateTable(*w.NestedTable, where+" > "+w.ID)
}

func invalid(where, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDocument, where, reason)
}
