package components

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/model"
)

const templatePrefix = "templates/components/"

// Element keys addressable by element-scoped class names.
const (
	ElementLabel   = "label"
	ElementControl = "control"
)

// NewDefaultRegistry constructs a registry with one template component per
// non-table widget type. Tables are laid out by the grid renderer itself.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, wt := range []model.WidgetType{model.WidgetInput, model.WidgetCheckbox, model.WidgetRadio, model.WidgetLabel} {
		registry.MustRegister(string(wt), Descriptor{
			Renderer: templateComponentRenderer(templatePrefix + string(wt) + ".tmpl"),
		})
	}
	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, widget model.Widget, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, Payload(widget, data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// Payload builds the template data of one widget. Numbers are pre-formatted
// so templates never see JSON floats.
func Payload(widget model.Widget, data ComponentData) map[string]any {
	classes := widget.ClassNames
	elements := make(map[string]any)
	if classes != nil {
		for key, value := range classes.Elements {
			elements[key] = value
		}
	}

	label := widget.Label
	if widget.Type == model.WidgetLabel && data.Value != "" {
		label = data.Value
	}

	options := make([]any, 0, len(widget.Options))
	for i, text := range widget.Options {
		key := canvas.OptionElementKey(i)
		options = append(options, map[string]any{
			"index":   strconv.Itoa(i),
			"key":     key,
			"text":    text,
			"class":   classes.Element(key),
			"checked": i == data.SelectedOption,
		})
	}

	inner := ""
	if classes != nil {
		inner = classes.Inner
	}
	return map[string]any{
		"id":          widget.ID,
		"type":        string(widget.Type),
		"label":       label,
		"placeholder": widget.Placeholder,
		"value":       data.Value,
		"checked":     isChecked(data.Value),
		"options":     options,
		"inner":       inner,
		"el":          elements,
		"controlId":   data.ControlID,
	}
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}
