package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/document"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/orchestrator"
	"github.com/goliatone/go-formlayout/pkg/render"
	"github.com/goliatone/go-formlayout/pkg/script"
	"github.com/goliatone/go-formlayout/pkg/testsupport"
)

func TestDefaultRegistry(t *testing.T) {
	registry, err := orchestrator.DefaultRegistry(nil)
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if diff := cmp.Diff([]string{"terminal", "tui", "vanilla", "xlsx"}, registry.List()); diff != "" {
		t.Fatalf("renderers (-want +got):\n%s", diff)
	}
}

func TestGenerate_LayoutFileWithValues(t *testing.T) {
	ctx := testsupport.Context()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := document.WriteFile(path, testsupport.SampleLayout(t)); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	orch := orchestrator.New()
	out, err := orch.Generate(ctx, orchestrator.Request{
		LayoutPath: path,
		Values:     map[string]string{"listValue1": "Ada"},
		Mode:       render.ModePreview,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `value="Ada"`) {
		t.Fatalf("default renderer should produce preview HTML:\n%s", out)
	}
}

func TestGenerate_ScriptThenTransformers(t *testing.T) {
	ctx := testsupport.Context()
	var order []string
	record := orchestrator.TransformerFunc(func(_ context.Context, c *canvas.Canvas) error {
		rows, cols := c.Dimensions()
		order = append(order, "transformer")
		if rows != 2 || cols != 3 {
			t.Errorf("transformer should see the scripted grid, got %dx%d", rows, cols)
		}
		return nil
	})
	s, err := script.Parse([]byte(`[{op: add-row}, {op: place, at: [1, 0], widget: label}, {op: label, at: [1, 0], text: Totals}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	orch := orchestrator.New(
		orchestrator.WithTransformers(record),
		orchestrator.WithDefaultRenderer("terminal"),
		orchestrator.WithIDGenerator(ids.Sequence()),
	)
	out, err := orch.Generate(ctx, orchestrator.Request{Script: &s})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("transformer should run once, got %v", order)
	}
	if !strings.Contains(string(out), "Totals") || !strings.Contains(string(out), "canvas 2×3") {
		t.Fatalf("terminal output:\n%s", out)
	}
}

func TestCanvas_FreshSize(t *testing.T) {
	c, err := orchestrator.New().Canvas(testsupport.Context(), orchestrator.Request{Rows: 3, Columns: 2})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	if rows, cols := c.Dimensions(); rows != 3 || cols != 2 {
		t.Fatalf("size: want 3x2, got %dx%d", rows, cols)
	}
}

func TestScriptTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"build.yaml": {Data: []byte("steps:\n  - op: add-column\n")},
		"bad.yaml":   {Data: []byte("steps:\n  - op: explode\n")},
	}
	tr, err := orchestrator.NewScriptTransformerFromFS(fsys, "build.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := orchestrator.New(orchestrator.WithTransformers(tr)).Canvas(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	if _, cols := c.Dimensions(); cols != 4 {
		t.Fatalf("columns: want 4, got %d", cols)
	}

	if _, err := orchestrator.NewScriptTransformerFromFS(fsys, "bad.yaml"); !errors.Is(err, script.ErrInvalidScript) {
		t.Fatalf("want ErrInvalidScript, got %v", err)
	}
	if _, err := orchestrator.NewScriptTransformerFromFS(fsys, "missing.yaml"); err == nil {
		t.Fatalf("missing script should fail")
	}
}

func TestGenerate_Errors(t *testing.T) {
	ctx := testsupport.Context()
	orch := orchestrator.New()

	if _, err := orch.Generate(ctx, orchestrator.Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("unknown renderer should fail")
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{LayoutPath: filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Fatalf("missing layout should fail")
	}
	failing := orchestrator.TransformerFunc(func(context.Context, *canvas.Canvas) error { return errors.New("boom") })
	if _, err := orchestrator.New(orchestrator.WithTransformers(failing)).Generate(ctx, orchestrator.Request{}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("transformer error should propagate, got %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := orch.Generate(cancelled, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
