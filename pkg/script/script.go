// Package script applies edit scripts to a canvas. A script is a YAML (or
// JSON) list of steps; each step names an operation, the grid it edits
// (a chain of table-widget coordinates from the main grid) and the cell
// coordinates it targets:
//
//	steps:
//	  - op: merge
//	    at: [0, 1]
//	    to: [0, 2]
//	  - op: place
//	    at: [1, 2]
//	    widget: table
//	  - op: bind
//	    in: [[1, 2]]
//	    at: [0, 0]
//	    key: customer.name
//
// Steps run in order and stop at the first refused step.
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Operation names.
const (
	OpAddRow       = "add-row"
	OpAddColumn    = "add-column"
	OpRemoveRow    = "remove-row"
	OpRemoveColumn = "remove-column"
	OpMerge        = "merge"
	OpUnmerge      = "unmerge"
	OpPlace        = "place"
	OpRemove       = "remove"
	OpMove         = "move"
	OpLabel        = "label"
	OpPlaceholder  = "placeholder"
	OpOptions      = "options"
	OpOption       = "option"
	OpAddOption    = "add-option"
	OpRemoveOption = "remove-option"
	OpBind         = "bind"
	OpBindOption   = "bind-option"
	OpCellClass    = "cell-class"
	OpWidgetClass  = "widget-class"
	OpValue        = "value"
)

// Ops lists every supported operation.
var Ops = []string{
	OpAddRow, OpAddColumn, OpRemoveRow, OpRemoveColumn, OpMerge, OpUnmerge,
	OpPlace, OpRemove, OpMove, OpLabel, OpPlaceholder, OpOptions, OpOption,
	OpAddOption, OpRemoveOption, OpBind, OpBindOption, OpCellClass,
	OpWidgetClass, OpValue,
}

// ErrInvalidScript reports a script that cannot be decoded or names an
// unknown operation.
var ErrInvalidScript = errors.New("script: invalid script")

// Coord is a zero-based (row, col) pair. It decodes from `[row, col]` or
// `{row: r, col: c}`.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c *Coord) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: coordinate needs two values, got %d", node.Line, len(pair))
		}
		c.Row, c.Col = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		type plain Coord
		var out plain
		if err := node.Decode(&out); err != nil {
			return err
		}
		*c = Coord(out)
		return nil
	default:
		return fmt.Errorf("line %d: coordinate must be [row, col] or {row, col}", node.Line)
	}
}

// Step is one edit.
type Step struct {
	Op string `json:"op" yaml:"op"`
	// In walks from the main grid into nested tables, one table widget
	// coordinate per level.
	In []Coord `json:"in,omitempty" yaml:"in,omitempty"`
	At *Coord  `json:"at,omitempty" yaml:"at,omitempty"`
	To *Coord  `json:"to,omitempty" yaml:"to,omitempty"`
	// ToIn selects the destination grid of a move; it defaults to In.
	ToIn    []Coord  `json:"toIn,omitempty" yaml:"toIn,omitempty"`
	Widget  string   `json:"widget,omitempty" yaml:"widget,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Index   int      `json:"index,omitempty" yaml:"index,omitempty"`
	Key     string   `json:"key,omitempty" yaml:"key,omitempty"`
	Scope   string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Element string   `json:"element,omitempty" yaml:"element,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Parse decodes a script. A bare list of steps is accepted as well as a
// document with a `steps` key. JSON input is read by the YAML decoder.
func Parse(data []byte) (Script, error) {
	var s Script
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Script{}, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if len(node.Content) == 0 {
		return Script{}, nil
	}
	root := node.Content[0]
	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&s.Steps)
	} else {
		err = root.Decode(&s)
	}
	if err != nil {
		return Script{}, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// ParseFile reads and decodes the script at path.
func ParseFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks operation names and required coordinates without touching
// a canvas.
func (s Script) Validate() error {
	for i, step := range s.Steps {
		if reason := step.missing(); reason != "" {
			return fmt.Errorf("%w: step %d (%s): %s", ErrInvalidScript, i+1, step.Op, reason)
		}
	}
	return nil
}

func (s Step) missing() string {
	switch s.Op {
	case OpAddRow, OpAddColumn, OpRemoveRow, OpRemoveColumn:
		return ""
	case OpValue:
		if s.Key == "" {
			return "key is required"
		}
		return ""
	case OpMerge, OpMove:
		if s.At == nil || s.To == nil {
			return "at and to are required"
		}
		return ""
	case OpPlace:
		if s.At == nil || s.Widget == "" {
			return "at and widget are required"
		}
		return ""
	case OpUnmerge, OpRemove, OpLabel, OpPlaceholder, OpOptions, OpOption,
		OpAddOption, OpRemoveOption, OpBind, OpBindOption, OpCellClass, OpWidgetClass:
		if s.At == nil {
			return "at is required"
		}
		return ""
	case "":
		return "op is required"
	default:
		return "unknown operation"
	}
}
