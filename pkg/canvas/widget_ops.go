package canvas

import (
	"strings"

	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/widgets"
)

const nestedPrefix = widgets.NestedIDPrefix

// Widget looks up a widget anywhere in the layout.
func (c *Canvas) Widget(widgetID string) (model.Widget, bool) {
	return model.FindWidget(c.Snapshot(), widgetID)
}

// updateWidget edits the widget with widgetID wherever it is nested.
func (c *Canvas) updateWidget(op, widgetID string, fn func(model.Widget) model.Widget) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateWidgetLocked(op, widgetID, fn)
}

func (c *Canvas) updateWidgetLocked(op, widgetID string, fn func(model.Widget) model.Widget) bool {
	next, ok := model.UpdateWidget(c.table, widgetID, fn)
	if !ok {
		c.logger.Debug(op+" refused", "reason", "widget not found", "widget", widgetID)
		return false
	}
	c.table = next
	return true
}

// SetLabel replaces the widget label.
func (c *Canvas) SetLabel(widgetID, label string) bool {
	return c.updateWidget("set label", widgetID, func(w model.Widget) model.Widget {
		return w.WithLabel(label)
	})
}

// SetPlaceholder replaces the placeholder of an input.
func (c *Canvas) SetPlaceholder(widgetID, placeholder string) bool {
	return c.updateWidget("set placeholder", widgetID, func(w model.Widget) model.Widget {
		return w.WithPlaceholder(placeholder)
	})
}

// SetOptions replaces the whole option list. Option bindings follow the new
// length.
func (c *Canvas) SetOptions(widgetID string, options []string) bool {
	return c.updateWidget("set options", widgetID, func(w model.Widget) model.Widget {
		if len(options) == 0 {
			return w.WithOptions([]string{model.DefaultOptionLabel(1)})
		}
		return w.WithOptions(options)
	})
}

// UpdateOption renames option index.
func (c *Canvas) UpdateOption(widgetID string, index int, text string) bool {
	return c.updateWidget("update option", widgetID, func(w model.Widget) model.Widget {
		return w.WithOptionText(index, text)
	})
}

// AddOption appends "Option N" to a radio.
func (c *Canvas) AddOption(widgetID string) bool {
	return c.updateWidget("add option", widgetID, func(w model.Widget) model.Widget {
		return w.AddOption()
	})
}

// RemoveOption drops option index. A radio always keeps at least one option.
// A focus on the removed option falls back to the widget.
func (c *Canvas) RemoveOption(widgetID string, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.updateWidgetLocked("remove option", widgetID, func(w model.Widget) model.Widget {
		return w.RemoveOption(index)
	})
	if !ok {
		return false
	}
	if c.focus.OptionIndex == index && c.focusedWidgetIDLocked() == widgetID {
		c.focus.OptionIndex = -1
		c.focus.Target = TargetWidget
		c.focus.ElementKey = ""
	}
	return true
}

// SetValueBinding binds the widget value to key, or clears the binding when
// key is blank.
func (c *Canvas) SetValueBinding(widgetID, key string) bool {
	return c.updateWidget("set value binding", widgetID, func(w model.Widget) model.Widget {
		return w.WithValueBinding(key)
	})
}

// SetOptionBinding binds option index of a radio to key.
func (c *Canvas) SetOptionBinding(widgetID string, index int, key string) bool {
	return c.updateWidget("set option binding", widgetID, func(w model.Widget) model.Widget {
		return w.WithOptionBinding(index, key)
	})
}

// SetWidgetClassName sets the class name of one visual scope of a widget.
func (c *Canvas) SetWidgetClassName(widgetID string, scope model.ClassScope, elementKey, value string) bool {
	return c.updateWidget("set widget class", widgetID, func(w model.Widget) model.Widget {
		return w.WithClassName(scope, elementKey, value)
	})
}

// ApplyClassName writes value to whatever the focus points at: the cell, the
// widget wrapper, the inner component, or a tagged element.
func (c *Canvas) ApplyClassName(value string) bool {
	focus := c.Focus()
	if !focus.Active() {
		return false
	}
	editor := &Editor{canvas: c, path: focus.Path}
	if focus.Target == TargetCell {
		return editor.SetCellClassName(focus.CellID, value)
	}
	t, ok := editor.Table()
	if !ok {
		return false
	}
	w, ok := model.CellWidget(t, focus.CellID, "")
	if !ok {
		return false
	}
	switch focus.Target {
	case TargetWidget:
		return c.SetWidgetClassName(w.ID, model.ScopeWrapper, "", value)
	case TargetWidgetInner:
		return c.SetWidgetClassName(w.ID, model.ScopeInner, "", value)
	case TargetElement:
		return c.SetWidgetClassName(w.ID, model.ScopeElement, focus.ElementKey, value)
	}
	return false
}

// FocusedWidget returns the widget in the focused cell.
func (c *Canvas) FocusedWidget() (model.Widget, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.focusedWidgetLocked()
}

func (c *Canvas) focusedWidgetLocked() (model.Widget, bool) {
	if !c.focus.Active() {
		return model.Widget{}, false
	}
	t, ok := tableAt(c.table, c.focus.Path)
	if !ok {
		return model.Widget{}, false
	}
	return model.CellWidget(t, c.focus.CellID, "")
}

func (c *Canvas) focusedWidgetIDLocked() string {
	w, ok := c.focusedWidgetLocked()
	if !ok {
		return ""
	}
	return w.ID
}

// forgetWidget drops the instance-scoped preview values of w and of every
// widget nested inside it.
func (c *Canvas) forgetWidget(w model.Widget) {
	c.bindings.ClearInstance(w.ID)
	if w.NestedTable != nil {
		model.WalkWidgets(*w.NestedTable, func(nested model.Widget, _ int) {
			c.bindings.ClearInstance(nested.ID)
		})
	}
}

func trimClass(value string) string {
	return strings.TrimSpace(value)
}
