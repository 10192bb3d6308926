package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/model"
)

// Mode selects what a renderer emits.
type Mode string

const (
	// ModeBuilder keeps the editing chrome: toolbars, remove buttons,
	// selection outlines and draggable widgets.
	ModeBuilder Mode = "builder"
	// ModePreview strips the chrome and shows the values currently held by
	// the binding context.
	ModePreview Mode = "preview"
	// ModeExport strips the chrome and stamps value="{{ key }}" on every
	// bound control.
	ModeExport Mode = "export"
)

// Modes lists the supported modes.
var Modes = []Mode{ModeBuilder, ModePreview, ModeExport}

// ParseMode normalises raw; an empty string selects ModeExport.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeExport:
		return ModeExport, nil
	case ModeBuilder:
		return ModeBuilder, nil
	case ModePreview:
		return ModePreview, nil
	default:
		return "", fmt.Errorf("render: unknown mode %q", raw)
	}
}

// RenderOptions describe per-request data renderers use to customise their
// output without touching the layout.
type RenderOptions struct {
	Mode Mode
	// Bindings resolves the values shown in builder and preview mode. Nil
	// renders every control empty.
	Bindings *binding.Context
	// Selected holds the ids of the highlighted cells in builder mode.
	Selected map[string]bool
	// FocusCellID marks the cell that owns the editing focus.
	FocusCellID string
	// Sanitize runs exported markup through the sanitising policy.
	Sanitize bool
}

// Value resolves expr for the widget instance id, or "" without bindings.
func (o RenderOptions) Value(expr, instanceID string) string {
	if o.Bindings == nil || expr == "" {
		return ""
	}
	return o.Bindings.Value(expr, instanceID)
}

// SelectedOption reports the chosen option of a radio widget.
func (o RenderOptions) SelectedOption(w model.Widget) (int, bool) {
	if o.Bindings == nil {
		return -1, false
	}
	return o.Bindings.SelectedOption(w.Options, w.OptionBindings, w.ID)
}

// FromCanvas captures the snapshot of c together with the options that
// reflect its bindings, selection and focus.
func FromCanvas(c *canvas.Canvas, mode Mode) (model.Table, RenderOptions) {
	focus := c.Focus()
	return c.Snapshot(), RenderOptions{
		Mode:        mode,
		Bindings:    c.Bindings(),
		Selected:    c.SelectedCellIDs(),
		FocusCellID: focus.CellID,
	}
}
