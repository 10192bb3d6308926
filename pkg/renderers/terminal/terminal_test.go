package terminal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/render"
	"github.com/goliatone/go-formlayout/pkg/renderers/terminal"
	"github.com/goliatone/go-formlayout/pkg/testsupport"
)

func draw(t *testing.T, c *canvas.Canvas, mode render.Mode, options ...terminal.Option) string {
	t.Helper()
	table, opts := render.FromCanvas(c, mode)
	out, err := terminal.New(append([]terminal.Option{terminal.WithPlain()}, options...)...).
		Render(context.Background(), table, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRender_MergedCellsShareOneBox(t *testing.T) {
	out := draw(t, testsupport.SampleCanvas(t), render.ModeBuilder, terminal.WithColumnWidth(10), terminal.WithRowHeight(4))
	lines := strings.Split(out, "\n")

	if lines[0] != "canvas 2×3" {
		t.Fatalf("title: %q", lines[0])
	}
	// Top border of row 0: the merged input spans columns 1 and 2 so the
	// corner between them is not drawn.
	if want := "+----------+---------------------+"; lines[1] != want {
		t.Fatalf("top border:\nwant %q\ngot  %q", want, lines[1])
	}
	if want := "+----------+----------+----------+"; lines[6] != want {
		t.Fatalf("row separator:\nwant %q\ngot  %q", want, lines[6])
	}
	if !strings.Contains(out, "table nested-") && !strings.Contains(out, "table widget-") {
		t.Fatalf("nested table section missing:\n%s", out)
	}
}

func TestRender_WidgetSummaries(t *testing.T) {
	c := testsupport.SampleCanvas(t)
	c.Bindings().SetValue("{{ listValue1 }}", "Ada", "")
	c.Bindings().SetValue("{{ listValue3 }}", "B", "")

	out := draw(t, c, render.ModePreview)
	for _, want := range []string{"Aa Name", "▭ Full name", "[Ada]", "( ) A", "(•) B", "[ ] Checkbox", "⊞ table 2×2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestRender_ExportShowsExpressions(t *testing.T) {
	c := testsupport.SampleCanvas(t)
	c.Bindings().SetValue("{{ listValue1 }}", "Ada", "")

	out := draw(t, c, render.ModeExport, terminal.WithColumnWidth(30))
	for _, want := range []string{"[{{ listValue1 }}]", "( ) A {{ listValue2 }}", "[{{ listValue4 }}]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[Ada]") {
		t.Fatalf("export should not resolve values")
	}
}

func TestRender_TruncatesLongText(t *testing.T) {
	c := canvas.New(canvas.WithSize(1, 1))
	w, ok := c.PlaceWidget(0, 0, "input")
	if !ok {
		t.Fatalf("place widget")
	}
	c.SetLabel(w.ID, strings.Repeat("x", 40))

	out := draw(t, c, render.ModeBuilder, terminal.WithColumnWidth(8))
	if !strings.Contains(out, "xxxxx…") {
		t.Fatalf("long labels should be truncated:\n%s", out)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := terminal.New().Render(ctx, canvas.New().Snapshot(), render.RenderOptions{}); err == nil {
		t.Fatalf("cancelled context should fail")
	}
}
