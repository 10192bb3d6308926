package model

import (
	"fmt"
	"maps"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/binding"
)

// DefaultOptionLabel formats the label given to the n-th (1-based) option.
func DefaultOptionLabel(n int) string {
	return fmt.Sprintf("Option %d", n)
}

// WithLabel returns a copy with the label replaced.
func (w Widget) WithLabel(label string) Widget {
	out := w.Clone()
	out.Label = label
	return out
}

// WithPlaceholder returns a copy with the placeholder replaced.
func (w Widget) WithPlaceholder(placeholder string) Widget {
	out := w.Clone()
	out.Placeholder = placeholder
	return out
}

// WithOptions returns a copy with a new option list. Option bindings, when
// present, are resized to the new length keeping entries at matching indices.
func (w Widget) WithOptions(options []string) Widget {
	out := w.Clone()
	if len(options) == 0 {
		out.Options = nil
	} else {
		out.Options = append([]string(nil), options...)
	}
	if len(out.OptionBindings) > 0 {
		out.OptionBindings = resizeBindings(out.OptionBindings, len(out.Options))
	}
	return out
}

// WithOptionText renames the option at index. Out of range indices are
// ignored.
func (w Widget) WithOptionText(index int, text string) Widget {
	if index < 0 || index >= len(w.Options) {
		return w
	}
	options := append([]string(nil), w.Options...)
	options[index] = text
	return w.WithOptions(options)
}

// AddOption appends "Option N" where N is the new option count.
func (w Widget) AddOption() Widget {
	options := append(append([]string(nil), w.Options...), DefaultOptionLabel(len(w.Options)+1))
	return w.WithOptions(options)
}

// RemoveOption drops the option at index. A radio never ends up without
// options: removing the last one leaves a single "Option 1".
func (w Widget) RemoveOption(index int) Widget {
	if index < 0 || index >= len(w.Options) {
		return w
	}
	options := make([]string, 0, len(w.Options))
	for i, option := range w.Options {
		if i != index {
			options = append(options, option)
		}
	}
	if len(options) == 0 {
		options = []string{DefaultOptionLabel(1)}
	}
	return w.WithOptions(options)
}

// WithValueBinding binds the widget value to key. A blank key clears the
// binding.
func (w Widget) WithValueBinding(key string) Widget {
	out := w.Clone()
	out.ValueBinding = binding.Expression(key)
	return out
}

// WithOptionBinding binds option index to key. The binding list is sized to
// the option count; other entries are preserved and unset ones are "".
// Indices outside the option list are ignored.
func (w Widget) WithOptionBinding(index int, key string) Widget {
	if index < 0 || index >= len(w.Options) {
		return w
	}
	out := w.Clone()
	out.OptionBindings = resizeBindings(out.OptionBindings, len(out.Options))
	out.OptionBindings[index] = binding.Expression(key)
	return out
}

// WithClassName sets the class name for scope. elementKey is only used with
// ScopeElement. Blank values clear the entry.
func (w Widget) WithClassName(scope ClassScope, elementKey, value string) Widget {
	out := w.Clone()
	classes := ClassNames{}
	if out.ClassNames != nil {
		classes = *out.ClassNames
		classes.Elements = maps.Clone(out.ClassNames.Elements)
	}
	value = strings.TrimSpace(value)
	switch scope {
	case ScopeWrapper:
		classes.Wrapper = value
	case ScopeInner:
		classes.Inner = value
	case ScopeElement:
		key := strings.TrimSpace(elementKey)
		if key == "" {
			return w
		}
		if value == "" {
			delete(classes.Elements, key)
		} else {
			if classes.Elements == nil {
				classes.Elements = make(map[string]string)
			}
			classes.Elements[key] = value
		}
		if len(classes.Elements) == 0 {
			classes.Elements = nil
		}
	default:
		return w
	}
	if classes.IsZero() {
		out.ClassNames = nil
	} else {
		out.ClassNames = &classes
	}
	return out
}

// WithNestedTable returns a copy owning t. Non-table widgets are returned
// unchanged.
func (w Widget) WithNestedTable(t Table) Widget {
	if !w.IsTable() {
		return w
	}
	out := w
	nested := t
	out.NestedTable = &nested
	return out
}

func resizeBindings(current []string, size int) []string {
	if size <= 0 {
		return nil
	}
	out := make([]string, size)
	copy(out, current)
	return out
}
