package canvas

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// TargetKind names what an editing focus points at.
type TargetKind string

const (
	TargetNone        TargetKind = ""
	TargetCell        TargetKind = "cell"
	TargetWidget      TargetKind = "widget"
	TargetWidgetInner TargetKind = "widget-inner"
	TargetElement     TargetKind = "element"
)

// OptionElementPrefix tags the element keys of radio options ("option-0").
const OptionElementPrefix = "option-"

// OptionElementKey returns the element key of the radio option at index.
func OptionElementKey(index int) string {
	return OptionElementPrefix + strconv.Itoa(index)
}

// ParseOptionElementKey extracts the option index from an element key.
func ParseOptionElementKey(key string) (int, bool) {
	raw, ok := strings.CutPrefix(key, OptionElementPrefix)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// Focus is the editing focus: none, or a cell of some grid with the most
// specific target a click reached inside it.
type Focus struct {
	// Path locates the grid holding the cell; empty for the main grid.
	Path       Path       `json:"path,omitempty"`
	CellID     string     `json:"cellId,omitempty"`
	Target     TargetKind `json:"target,omitempty"`
	ElementKey string     `json:"elementKey,omitempty"`
	// OptionIndex is the radio option being edited, -1 when none.
	OptionIndex int `json:"optionIndex"`
}

func noFocus() Focus {
	return Focus{OptionIndex: -1}
}

// Active reports whether something has the focus.
func (f Focus) Active() bool {
	return f.CellID != "" && f.Target != TargetNone
}

// Nested reports whether the focused cell lives in a nested table.
func (f Focus) Nested() bool {
	return len(f.Path) > 0
}

func (f Focus) clone() Focus {
	f.Path = f.Path.clone()
	return f
}

// Hit describes where a click landed inside a cell, from the most specific
// tagged element outwards.
type Hit struct {
	// Element is the key of the innermost tagged child element, if any.
	Element string
	// Inner is set when the click is inside the widget's inner component.
	Inner bool
	// Widget is set when the click is inside the widget wrapper.
	Widget bool
	// Modifier is set for ctrl/meta clicks, which edit the selection instead.
	Modifier bool
}

// onWidget reports whether the click reached the widget at all.
func (h Hit) onWidget() bool {
	return h.Element != "" || h.Inner || h.Widget
}

// resolveTarget picks the most specific target reachable for a click.
// Element beats inner component, which beats wrapper, which beats the cell.
func resolveTarget(w *model.Widget, hit Hit) (TargetKind, string) {
	if w == nil {
		return TargetCell, ""
	}
	switch {
	case strings.TrimSpace(hit.Element) != "":
		return TargetElement, strings.TrimSpace(hit.Element)
	case hit.Inner:
		return TargetWidgetInner, ""
	case hit.Widget:
		return TargetWidget, ""
	default:
		return TargetCell, ""
	}
}
