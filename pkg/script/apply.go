package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/model"
)

// ErrRefused is wrapped by StepError when the canvas refuses a step.
var ErrRefused = errors.New("script: step refused")

// StepError locates the failing step of a script.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("script: step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type Option func(*runner)

// WithLogger sets the logger that records each applied step.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type runner struct {
	canvas *canvas.Canvas
	logger *slog.Logger
}

// Apply runs the steps of s against c in order. It returns the number of
// applied steps; the first refused step stops the run with a *StepError.
// Steps applied before the failure stay applied.
func Apply(ctx context.Context, c *canvas.Canvas, s Script, options ...Option) (int, error) {
	r := &runner{canvas: c}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := r.apply(step); err != nil {
			return i, &StepError{Index: i, Op: step.Op, Err: err}
		}
		r.logger.Debug("script step applied", "step", i+1, "op", step.Op)
	}
	return len(s.Steps), nil
}

func (r *runner) apply(step Step) error {
	if reason := step.missing(); reason != "" {
		return fmt.Errorf("%w: %s", ErrInvalidScript, reason)
	}
	if step.Op == OpValue {
		r.canvas.Bindings().SetValue(binding.Expression(bareKey(step.Key)), step.Text, "")
		return nil
	}

	editor, err := r.editor(step.In)
	if err != nil {
		return err
	}

	switch step.Op {
	case OpAddRow:
		return refused(editor.AddRow())
	case OpAddColumn:
		return refused(editor.AddColumn())
	case OpRemoveRow:
		return refused(editor.RemoveRow())
	case OpRemoveColumn:
		return refused(editor.RemoveColumn())
	case OpMerge:
		return refused(editor.Merge(step.At.Row, step.At.Col, step.To.Row, step.To.Col))
	case OpUnmerge:
		return refused(editor.Unmerge(step.At.Row, step.At.Col))
	case OpPlace:
		wt, ok := model.ParseWidgetType(step.Widget)
		if !ok {
			return fmt.Errorf("%w: unknown widget type %q", ErrInvalidScript, step.Widget)
		}
		_, placed := editor.PlaceWidget(step.At.Row, step.At.Col, wt)
		return refused(placed)
	case OpRemove:
		cell, err := cellAt(editor, *step.At)
		if err != nil {
			return err
		}
		return refused(editor.RemoveWidget(cell.ID))
	case OpMove:
		return r.move(editor, step)
	case OpCellClass:
		cell, err := cellAt(editor, *step.At)
		if err != nil {
			return err
		}
		return refused(editor.SetCellClassName(cell.ID, step.Text))
	}

	w, err := widgetAt(editor, *step.At)
	if err != nil {
		return err
	}
	c := r.canvas
	switch step.Op {
	case OpLabel:
		return refused(c.SetLabel(w.ID, step.Text))
	case OpPlaceholder:
		return refused(c.SetPlaceholder(w.ID, step.Text))
	case OpOptions:
		return refused(c.SetOptions(w.ID, step.Options))
	case OpOption:
		return refused(c.UpdateOption(w.ID, step.Index, step.Text))
	case OpAddOption:
		return refused(c.AddOption(w.ID))
	case OpRemoveOption:
		return refused(c.RemoveOption(w.ID, step.Index))
	case OpBind:
		return refused(c.SetValueBinding(w.ID, bareKey(step.Key)))
	case OpBindOption:
		return refused(c.SetOptionBinding(w.ID, step.Index, bareKey(step.Key)))
	case OpWidgetClass:
		scope := model.ClassScope(step.Scope)
		if scope == "" {
			scope = model.ScopeWrapper
		}
		return refused(c.SetWidgetClassName(w.ID, scope, step.Element, step.Text))
	}
	return fmt.Errorf("%w: unknown operation", ErrInvalidScript)
}

func (r *runner) move(from *canvas.Editor, step Step) error {
	source, err := cellAt(from, *step.At)
	if err != nil {
		return err
	}
	payload, ok := from.PickUp(source.ID)
	if !ok {
		return fmt.Errorf("%w: no widget at %v", ErrRefused, *step.At)
	}
	to := from
	if step.ToIn != nil {
		if to, err = r.editor(step.ToIn); err != nil {
			return err
		}
	}
	target, err := cellAt(to, *step.To)
	if err != nil {
		return err
	}
	return refused(to.DropMove(payload, target.ID))
}

// editor follows path from the main grid. Each coordinate must hold a table
// widget.
func (r *runner) editor(path []Coord) (*canvas.Editor, error) {
	editor := &r.canvas.Editor
	for depth, at := range path {
		next, ok := editor.NestedAt(at.Row, at.Col)
		if !ok {
			return nil, fmt.Errorf("%w: no table at level %d (%d,%d)", ErrRefused, depth+1, at.Row, at.Col)
		}
		editor = next
	}
	return editor, nil
}

func cellAt(editor *canvas.Editor, at Coord) (model.Cell, error) {
	t, ok := editor.Table()
	if !ok {
		return model.Cell{}, fmt.Errorf("%w: grid no longer exists", ErrRefused)
	}
	cell, ok := t.OriginCellAt(at.Row, at.Col)
	if !ok {
		return model.Cell{}, fmt.Errorf("%w: (%d,%d) is out of bounds", ErrRefused, at.Row, at.Col)
	}
	return cell, nil
}

func widgetAt(editor *canvas.Editor, at Coord) (model.Widget, error) {
	cell, err := cellAt(editor, at)
	if err != nil {
		return model.Widget{}, err
	}
	if cell.Widget == nil {
		return model.Widget{}, fmt.Errorf("%w: (%d,%d) holds no widget", ErrRefused, at.Row, at.Col)
	}
	return *cell.Widget, nil
}

func refused(ok bool) error {
	if ok {
		return nil
	}
	return ErrRefused
}

// bareKey accepts both "key" and "{{ key }}".
func bareKey(raw string) string {
	if key, ok := binding.ParseKey(raw); ok {
		return key
	}
	return raw
}
