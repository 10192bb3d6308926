package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		expr string
		key  string
		ok   bool
	}{
		{expr: "{{ listValue1 }}", key: "listValue1", ok: true},
		{expr: "{{listValue1}}", key: "listValue1", ok: true},
		{expr: "{{   spaced   }}", key: "spaced", ok: true},
		{expr: "listValue1"},
		{expr: "{{  }}"},
		{expr: ""},
		{expr: " {{ a }}"},
		{expr: "{{ a b }}"},
		{expr: "{{ a }} tail"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			key, ok := ParseKey(tc.expr)
			if ok != tc.ok || key != tc.key {
				t.Fatalf("ParseKey(%q): want (%q,%v), got (%q,%v)", tc.expr, tc.key, tc.ok, key, ok)
			}
		})
	}
}

func TestExpression(t *testing.T) {
	if got := Expression(" listValue2 "); got != "{{ listValue2 }}" {
		t.Fatalf("unexpected expression %q", got)
	}
	if got := Expression(""); got != "" {
		t.Fatalf("blank key should yield empty expression, got %q", got)
	}
	key, ok := ParseKey(Expression("k"))
	if !ok || key != "k" {
		t.Fatalf("expression should parse back to its key")
	}
}

func TestContext_InitialValues(t *testing.T) {
	ctx := NewContext([]Property{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}})
	want := map[string]string{"a": "", "b": ""}
	if diff := cmp.Diff(want, ctx.Values()); diff != "" {
		t.Fatalf("initial values (-want +got):\n%s", diff)
	}
	if got := NewContext(nil).Properties(); len(got) != len(DefaultProperties()) {
		t.Fatalf("nil properties should use defaults, got %d", len(got))
	}
}

func TestContext_Scopes(t *testing.T) {
	ctx := NewContext(nil)
	expr := "{{ listValue1 }}"

	ctx.SetValue(expr, "global", "")
	ctx.SetValue(expr, "local-a", "widget-a")

	if got := ctx.Value(expr, "widget-a"); got != "local-a" {
		t.Fatalf("instance read: want local-a, got %q", got)
	}
	if got := ctx.Value(expr, "widget-b"); got != "global" {
		t.Fatalf("missing instance should fall back to global, got %q", got)
	}
	if got := ctx.Value(expr, ""); got != "global" {
		t.Fatalf("global read: want global, got %q", got)
	}
	if got := ctx.Values()["listValue1"]; got != "global" {
		t.Fatalf("instance write leaked into global scope: %q", got)
	}

	ctx.ClearInstance("widget-a")
	if got := ctx.Value(expr, "widget-a"); got != "global" {
		t.Fatalf("cleared instance should fall back to global, got %q", got)
	}
}

func TestContext_MalformedExpressions(t *testing.T) {
	ctx := NewContext(nil)
	ctx.SetValue("listValue1", "x", "")
	ctx.SetValue("{{  }}", "x", "")
	if got := ctx.Values()["listValue1"]; got != "" {
		t.Fatalf("malformed write must be ignored, got %q", got)
	}
	if got := ctx.Value("not a binding", ""); got != "" {
		t.Fatalf("malformed read must be empty, got %q", got)
	}
	if got := ctx.Value("{{ undeclared }}", ""); got != "" {
		t.Fatalf("unset key must read empty, got %q", got)
	}
}

func TestContext_RadioGroup(t *testing.T) {
	ctx := NewContext(nil)
	options := []string{"A", "B"}
	bindings := []string{"{{ listValue1 }}", "{{ listValue2 }}"}

	if _, ok := ctx.SelectedOption(options, bindings, ""); ok {
		t.Fatalf("nothing should be selected initially")
	}

	ctx.SelectOption(options, bindings, "A", "")
	ctx.SelectOption(options, bindings, "B", "")

	values := ctx.Values()
	if values["listValue1"] != "" || values["listValue2"] != "B" {
		t.Fatalf("radio exclusivity broken: %v", values)
	}
	if idx, ok := ctx.SelectedOption(options, bindings, ""); !ok || idx != 1 {
		t.Fatalf("selected option: want 1, got %d (ok=%v)", idx, ok)
	}
}

func TestContext_RadioGroupInstanceScope(t *testing.T) {
	ctx := NewContext(nil)
	options := []string{"A", "B"}
	bindings := []string{"{{ listValue1 }}", "{{ listValue2 }}"}

	ctx.SelectOption(options, bindings, "A", "w1")
	if idx, ok := ctx.SelectedOption(options, bindings, "w1"); !ok || idx != 0 {
		t.Fatalf("instance selection: want 0, got %d (ok=%v)", idx, ok)
	}
	if _, ok := ctx.SelectedOption(options, bindings, ""); ok {
		t.Fatalf("instance selection must not affect global scope")
	}
}

func TestContext_RadioFirstMatchWins(t *testing.T) {
	ctx := NewContext(nil)
	options := []string{"Same", "Same"}
	bindings := []string{"{{ listValue1 }}", "{{ listValue2 }}"}
	ctx.SetValue(bindings[0], "Same", "")
	ctx.SetValue(bindings[1], "Same", "")
	if idx, _ := ctx.SelectedOption(options, bindings, ""); idx != 0 {
		t.Fatalf("first matching option should win, got %d", idx)
	}
}
