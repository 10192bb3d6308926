package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/document"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
)

// SampleCanvas builds the layout most renderer and exporter tests share. Ids
// come from ids.Sequence so snapshots are stable:
//
//	row 0: label "Name" | input bound to listValue1 (merged across two columns)
//	row 1: radio A/B bound per option | checkbox | table holding an input bound
//	       to listValue4
func SampleCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()

	c := canvas.New(canvas.WithIDGenerator(ids.Sequence()), canvas.WithSize(2, 3))
	mustOK(t, "merge", c.Merge(0, 1, 0, 2))

	label := mustPlace(t, c.Editor.PlaceWidget, 0, 0, model.WidgetLabel)
	mustOK(t, "label", c.SetLabel(label.ID, "Name"))

	input := mustPlace(t, c.Editor.PlaceWidget, 0, 1, model.WidgetInput)
	mustOK(t, "input label", c.SetLabel(input.ID, "Full name"))
	mustOK(t, "bind input", c.SetValueBinding(input.ID, "listValue1"))

	radio := mustPlace(t, c.Editor.PlaceWidget, 1, 0, model.WidgetRadio)
	mustOK(t, "options", c.SetOptions(radio.ID, []string{"A", "B"}))
	mustOK(t, "bind option 0", c.SetOptionBinding(radio.ID, 0, "listValue2"))
	mustOK(t, "bind option 1", c.SetOptionBinding(radio.ID, 1, "listValue3"))

	checkbox := mustPlace(t, c.Editor.PlaceWidget, 1, 1, model.WidgetCheckbox)
	mustOK(t, "checkbox class", c.SetWidgetClassName(checkbox.ID, model.ScopeWrapper, "", "compact"))

	mustPlace(t, c.Editor.PlaceWidget, 1, 2, model.WidgetTable)
	nested, ok := c.NestedAt(1, 2)
	if !ok {
		t.Fatalf("sample: nested table missing")
	}
	inner := mustPlace(t, nested.PlaceWidget, 0, 0, model.WidgetInput)
	mustOK(t, "bind nested", c.SetValueBinding(inner.ID, "listValue4"))
	return c
}

// SampleLayout returns the table built by SampleCanvas.
func SampleLayout(t *testing.T) model.Table {
	t.Helper()
	return SampleCanvas(t).Snapshot()
}

func mustPlace(t *testing.T, place func(int, int, model.WidgetType) (model.Widget, bool), row, col int, wt model.WidgetType) model.Widget {
	t.Helper()
	w, ok := place(row, col, wt)
	if !ok {
		t.Fatalf("sample: place %s at (%d,%d) failed", wt, row, col)
	}
	return w
}

func mustOK(t *testing.T, step string, ok bool) {
	t.Helper()
	if !ok {
		t.Fatalf("sample: %s failed", step)
	}
}

// LoadLayout reads a layout fixture, choosing the format from the extension.
func LoadLayout(t *testing.T, path string) model.Table {
	t.Helper()

	layout, err := LoadLayoutFromPath(path)
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	return layout
}

// LoadLayoutFromPath returns a layout without requiring testing.T.
func LoadLayoutFromPath(path string) (model.Table, error) {
	if path == "" {
		return model.Table{}, errors.New("testsupport: layout path is required")
	}
	layout, err := document.ReadFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("testsupport: %w", err)
	}
	return layout, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureRenderOutput executes a render function that writes to an io.Writer,
// returning both the returned string and the writer contents.
func CaptureRenderOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
