package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	messages     []string
	defaults     []string
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	s.defaults = append(s.defaults, cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

// layout: input "Name" -> customer.name, checkbox -> agreed, radio A/B, and a
// second input sharing customer.name inside a nested table.
func layout(t *testing.T) *canvas.Canvas {
	t.Helper()
	c := canvas.New(canvas.WithIDGenerator(ids.Sequence()), canvas.WithSize(1, 4))

	input, _ := c.PlaceWidget(0, 0, model.WidgetInput)
	c.SetLabel(input.ID, "Name")
	c.SetValueBinding(input.ID, "customer.name")

	check, _ := c.PlaceWidget(0, 1, model.WidgetCheckbox)
	c.SetLabel(check.ID, "Agree")
	c.SetValueBinding(check.ID, "agreed")

	radio, _ := c.PlaceWidget(0, 2, model.WidgetRadio)
	c.SetLabel(radio.ID, "Plan")
	c.SetOptions(radio.ID, []string{"A", "B"})
	c.SetOptionBinding(radio.ID, 0, "plan.a")
	c.SetOptionBinding(radio.ID, 1, "plan.b")

	c.PlaceWidget(0, 3, model.WidgetTable)
	nested, ok := c.NestedAt(0, 3)
	if !ok {
		t.Fatalf("nested table missing")
	}
	shared, _ := nested.PlaceWidget(0, 0, model.WidgetInput)
	c.SetValueBinding(shared.ID, "customer.name")
	return c
}

func TestRender_FillsBindingsInDocumentOrder(t *testing.T) {
	c := layout(t)
	c.Bindings().SetValue("{{ customer.name }}", "prefilled", "")
	driver := &stubDriver{inputs: []string{"Ada"}, confirm: []bool{true}, selectIdx: []int{1}}

	table, opts := render.FromCanvas(c, render.ModePreview)
	out, err := New(WithPromptDriver(driver)).Render(context.Background(), table, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]string{"Name", "Agree", "Plan"}, driver.messages); diff != "" {
		t.Fatalf("prompts (-want +got):\n%s", diff)
	}
	if driver.defaults[0] != "prefilled" {
		t.Fatalf("current value should be offered as default, got %q", driver.defaults[0])
	}
	want := `{"agreed":true,"customer":{"name":"Ada"},"plan":{"a":"","b":"B"}}`
	if string(out) != want {
		t.Fatalf("payload:\nwant %s\ngot  %s", want, out)
	}

	values := c.Bindings().Values()
	if values["customer.name"] != "Ada" || values["agreed"] != "true" || values["plan.b"] != "B" || values["plan.a"] != "" {
		t.Fatalf("bindings not updated: %+v", values)
	}
}

func TestRender_InstanceScopeAsksEveryWidget(t *testing.T) {
	c := layout(t)
	driver := &stubDriver{inputs: []string{"outer", "inner"}, confirm: []bool{false}, selectIdx: []int{0}}

	table, opts := render.FromCanvas(c, render.ModePreview)
	_, err := New(WithPromptDriver(driver), WithInstanceScope(true)).Render(context.Background(), table, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.inputPos != 2 {
		t.Fatalf("both inputs sharing a key should be asked, got %d prompts", driver.inputPos)
	}
	if got := c.Bindings().Values()["customer.name"]; got != "" {
		t.Fatalf("instance answers must not reach the global scope, got %q", got)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	cases := []struct {
		format OutputFormat
		want   string
	}{
		{OutputFormatFormURLEncoded, "agreed=false&customer.name=Ada&plan.a=A&plan.b="},
		{OutputFormatPrettyText, "agreed=false\ncustomer.name=Ada\nplan.a=A\nplan.b=\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			c := layout(t)
			driver := &stubDriver{inputs: []string{"Ada"}, confirm: []bool{false}, selectIdx: []int{0}}
			table, opts := render.FromCanvas(c, render.ModePreview)
			out, err := New(WithPromptDriver(driver), WithOutputFormat(tc.format)).Render(context.Background(), table, opts)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("want %q, got %q", tc.want, out)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	empty := canvas.New()
	if _, err := New(WithPromptDriver(&stubDriver{})).Render(context.Background(), empty.Snapshot(), render.RenderOptions{}); !errors.Is(err, ErrNoBindings) {
		t.Fatalf("want ErrNoBindings, got %v", err)
	}

	c := layout(t)
	table, opts := render.FromCanvas(c, render.ModePreview)
	if _, err := New(WithPromptDriver(&stubDriver{})).Render(context.Background(), table, opts); err == nil {
		t.Fatalf("driver failure should propagate")
	}

	driver := &stubDriver{inputs: []string{"x"}, confirm: []bool{true}, selectIdx: []int{7}}
	if _, err := New(WithPromptDriver(driver)).Render(context.Background(), table, opts); err == nil {
		t.Fatalf("out of range choice should fail")
	}
	if len(driver.infoMessages) != 1 {
		t.Fatalf("invalid choice should be reported, got %v", driver.infoMessages)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	c := layout(t)
	driver := &stubDriver{inputs: []string{"Ada"}, confirm: []bool{true}, selectIdx: []int{0}}
	table, opts := render.FromCanvas(c, render.ModePreview)
	transform := func(values map[string]any) (map[string]any, error) {
		return map[string]any{"wrapped": values["agreed"]}, nil
	}
	out, err := New(WithPromptDriver(driver), WithSubmitTransformer(transform)).Render(context.Background(), table, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"wrapped":true}` {
		t.Fatalf("payload: %s", out)
	}
}

func TestState_DottedPaths(t *testing.T) {
	state := NewState(nil)
	if err := state.SetValue("customer.address.city", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := state.GetValue("customer.address.city")
	if !ok || got != "x" {
		t.Fatalf("get: %v %v", got, ok)
	}
	if err := state.SetValue("customer.address.city.zip", "y"); err == nil {
		t.Fatalf("nesting below a value should fail")
	}
	if err := state.SetValue("customer.address", "z"); err == nil {
		t.Fatalf("overwriting an object should fail")
	}
	if _, ok := state.GetValue("customer.phone"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, ok := ParseOutputFormat(""); !ok || f != OutputFormatJSON {
		t.Fatalf("empty format should default to json")
	}
	if _, ok := ParseOutputFormat("xml"); ok {
		t.Fatalf("xml should be rejected")
	}
}
