package model

import (
	"maps"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/grid"
)

// WidgetType enumerates the widgets that can be placed on a grid.
type WidgetType string

const (
	WidgetInput    WidgetType = "input"
	WidgetCheckbox WidgetType = "checkbox"
	WidgetRadio    WidgetType = "radio"
	WidgetTable    WidgetType = "table"
	WidgetLabel    WidgetType = "label"
)

// WidgetTypes lists every widget type in palette order.
var WidgetTypes = []WidgetType{WidgetInput, WidgetCheckbox, WidgetRadio, WidgetTable, WidgetLabel}

// Valid reports whether t is a known widget type.
func (t WidgetType) Valid() bool {
	for _, known := range WidgetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseWidgetType normalises a drop payload ("  Radio ") into a known type.
func ParseWidgetType(raw string) (WidgetType, bool) {
	t := WidgetType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// ClassScope names where a free-form class name is applied.
type ClassScope string

const (
	// ScopeWrapper targets the widget wrapper element.
	ScopeWrapper ClassScope = "wrapper"
	// ScopeInner targets the inner widget component.
	ScopeInner ClassScope = "inner"
	// ScopeElement targets a tagged child element (label, control, option-0...).
	ScopeElement ClassScope = "element"
)

// ClassNames groups the class names a widget carries per visual scope.
type ClassNames struct {
	Wrapper  string            `json:"wrapper,omitempty" yaml:"wrapper,omitempty"`
	Inner    string            `json:"inner,omitempty" yaml:"inner,omitempty"`
	Elements map[string]string `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// IsZero reports whether no class name is set.
func (c ClassNames) IsZero() bool {
	return c.Wrapper == "" && c.Inner == "" && len(c.Elements) == 0
}

// Element returns the class name for the element tagged key.
func (c *ClassNames) Element(key string) string {
	if c == nil {
		return ""
	}
	return c.Elements[key]
}

// Widget is a widget instance placed in a grid cell. Widgets are values: edit
// a copy (see Clone) and store it back into the cell.
type Widget struct {
	ID             string      `json:"id" yaml:"id"`
	Type           WidgetType  `json:"type" yaml:"type"`
	Label          string      `json:"label,omitempty" yaml:"label,omitempty"`
	Options        []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder    string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	ValueBinding   string      `json:"valueBinding,omitempty" yaml:"valueBinding,omitempty"`
	OptionBindings []string    `json:"optionBindings,omitempty" yaml:"optionBindings,omitempty"`
	ClassNames     *ClassNames `json:"classNames,omitempty" yaml:"classNames,omitempty"`
	// NestedTable is only set for WidgetTable.
	NestedTable *grid.Grid[Widget] `json:"nestedTable,omitempty" yaml:"nestedTable,omitempty"`
}

// Cell is a grid cell holding widgets.
type Cell = grid.Cell[Widget]

// Row is a grid row holding widgets.
type Row = grid.Row[Widget]

// Table is a widget grid: the canvas itself and every nested table share it.
type Table = grid.Grid[Widget]

// IsTable reports whether the widget owns a nested table.
func (w Widget) IsTable() bool {
	return w.Type == WidgetTable
}

// Clone returns a deep copy of the widget, nested tables included.
func (w Widget) Clone() Widget {
	out := w
	if w.Options != nil {
		out.Options = append([]string(nil), w.Options...)
	}
	if w.OptionBindings != nil {
		out.OptionBindings = append([]string(nil), w.OptionBindings...)
	}
	if w.ClassNames != nil {
		classes := *w.ClassNames
		classes.Elements = maps.Clone(w.ClassNames.Elements)
		out.ClassNames = &classes
	}
	if w.NestedTable != nil {
		nested := CloneTable(*w.NestedTable)
		out.NestedTable = &nested
	}
	return out
}

// CloneTable deep-copies a table including every widget it holds.
func CloneTable(t Table) Table {
	return t.Map(func(_, _ int, cell Cell) Cell {
		if cell.Widget != nil {
			widget := cell.Widget.Clone()
			cell.Widget = &widget
		}
		return cell
	})
}
