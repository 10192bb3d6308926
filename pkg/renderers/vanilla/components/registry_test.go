package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/model"
)

func TestDefaultRegistry_Names(t *testing.T) {
	got := NewDefaultRegistry().Names()
	want := []string{"checkbox", "input", "label", "radio"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestRegistry_RegisterAndClone(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("blank name should fail")
	}
	if err := reg.Register("input", Descriptor{}); err == nil {
		t.Fatalf("nil renderer should fail")
	}
	reg.MustRegister(" Input ", Descriptor{Renderer: noop})

	clone := reg.Clone()
	clone.MustRegister("radio", Descriptor{Renderer: noop})

	if d, ok := reg.Descriptor("INPUT"); !ok || d.Name != "input" {
		t.Fatalf("lookup should normalise names, got %+v (%v)", d, ok)
	}
	if _, ok := reg.Descriptor("radio"); ok {
		t.Fatalf("clone registrations leaked into the source registry")
	}
}

func TestPayload(t *testing.T) {
	w := model.Widget{
		ID:      "widget-1",
		Type:    model.WidgetRadio,
		Label:   "Pick",
		Options: []string{"A", "B"},
		ClassNames: &model.ClassNames{
			Inner:    "stack",
			Elements: map[string]string{"option-1": "accent"},
		},
	}
	payload := Payload(w, ComponentData{SelectedOption: 1, ControlID: "fl-widget-1"})

	options := payload["options"].([]any)
	second := options[1].(map[string]any)
	if second["checked"] != true || second["class"] != "accent" || second["index"] != "1" {
		t.Fatalf("option payload: %+v", second)
	}
	if first := options[0].(map[string]any); first["checked"] != false {
		t.Fatalf("only the selected option should be checked")
	}
	if payload["inner"] != "stack" || payload["controlId"] != "fl-widget-1" {
		t.Fatalf("payload: %+v", payload)
	}
}

func TestPayload_LabelShowsBoundValue(t *testing.T) {
	w := model.Widget{ID: "w", Type: model.WidgetLabel, Label: "Static"}
	if got := Payload(w, ComponentData{Value: "Bound"})["label"]; got != "Bound" {
		t.Fatalf("label: want bound value, got %v", got)
	}
	if got := Payload(w, ComponentData{})["label"]; got != "Static" {
		t.Fatalf("label: want static text, got %v", got)
	}
}

func TestPayload_Checked(t *testing.T) {
	cases := map[string]bool{"": false, "false": false, "0": false, "yes": true, "on": true}
	for value, want := range cases {
		got := Payload(model.Widget{Type: model.WidgetCheckbox}, ComponentData{Value: value})["checked"]
		if got != want {
			t.Fatalf("checked(%q): want %v, got %v", value, want, got)
		}
	}
}

func noop(*bytes.Buffer, model.Widget, ComponentData) error { return nil }
