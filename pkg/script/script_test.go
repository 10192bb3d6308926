package script_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/script"
	"github.com/goliatone/go-formlayout/pkg/testsupport"
)

const sampleScript = `
steps:
  - op: merge
    at: [0, 1]
    to: {row: 0, col: 2}
  - {op: place, at: [0, 0], widget: label}
  - {op: label, at: [0, 0], text: Name}
  - {op: place, at: [0, 1], widget: " Input "}
  - {op: label, at: [0, 2], text: Full name}
  - {op: bind, at: [0, 1], key: listValue1}
  - {op: place, at: [1, 0], widget: radio}
  - {op: options, at: [1, 0], options: [A, B]}
  - {op: bind-option, at: [1, 0], index: 0, key: listValue2}
  - {op: bind-option, at: [1, 0], index: 1, key: "{{ listValue3 }}"}
  - {op: place, at: [1, 1], widget: checkbox}
  - {op: widget-class, at: [1, 1], scope: wrapper, text: compact}
  - {op: place, at: [1, 2], widget: table}
  - {op: place, in: [[1, 2]], at: [0, 0], widget: input}
  - {op: bind, in: [[1, 2]], at: [0, 0], key: listValue4}
`

func TestApply_BuildsSampleLayout(t *testing.T) {
	s, err := script.Parse([]byte(sampleScript))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := canvas.New(canvas.WithIDGenerator(ids.Sequence()), canvas.WithSize(2, 3))
	n, err := script.Apply(context.Background(), c, s)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != len(s.Steps) {
		t.Fatalf("applied: want %d, got %d", len(s.Steps), n)
	}
	if diff := cmp.Diff(testsupport.SampleLayout(t), c.Snapshot()); diff != "" {
		t.Fatalf("layout (-want +got):\n%s", diff)
	}
}

func TestParse_JSONList(t *testing.T) {
	s, err := script.Parse([]byte(`[{"op":"add-row"},{"op":"merge","at":[0,0],"to":[1,0]}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []script.Step{
		{Op: script.OpAddRow},
		{Op: script.OpMerge, At: &script.Coord{}, To: &script.Coord{Row: 1}},
	}
	if diff := cmp.Diff(want, s.Steps); diff != "" {
		t.Fatalf("steps (-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown op":    `[{op: explode}]`,
		"missing op":    `[{at: [0, 0]}]`,
		"missing at":    `[{op: label, text: x}]`,
		"bad coord":     `[{op: unmerge, at: [1]}]`,
		"scalar coord":  `[{op: unmerge, at: 3}]`,
		"missing key":   `[{op: value, text: x}]`,
		"not yaml":      "steps: [",
		"place no type": `[{op: place, at: [0, 0]}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := script.Parse([]byte(src)); !errors.Is(err, script.ErrInvalidScript) {
				t.Fatalf("want ErrInvalidScript, got %v", err)
			}
		})
	}
}

func TestApply_StopsAtRefusedStep(t *testing.T) {
	s, err := script.Parse([]byte(`
- {op: add-row}
- {op: merge, at: [0, 0], to: [0, 0]}
- {op: add-column}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := canvas.New()
	n, err := script.Apply(context.Background(), c, s)

	var stepErr *script.StepError
	if !errors.As(err, &stepErr) || stepErr.Index != 1 || !errors.Is(err, script.ErrRefused) {
		t.Fatalf("want refused step 2, got %v", err)
	}
	if n != 1 {
		t.Fatalf("applied: want 1, got %d", n)
	}
	if rows, cols := c.Dimensions(); rows != 2 || cols != 3 {
		t.Fatalf("earlier steps should stay applied: %dx%d", rows, cols)
	}
}

func TestApply_MoveAcrossGridsAndValues(t *testing.T) {
	c := canvas.New(canvas.WithIDGenerator(ids.Sequence()))
	s, err := script.Parse([]byte(`
- {op: place, at: [0, 0], widget: input}
- {op: bind, at: [0, 0], key: note}
- {op: place, at: [0, 1], widget: table}
- {op: move, at: [0, 0], to: [1, 1], toIn: [[0, 1]]}
- {op: value, key: note, text: hello}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := script.Apply(context.Background(), c, s); err != nil {
		t.Fatalf("apply: %v", err)
	}

	table := c.Snapshot()
	if table.Rows[0].Cells[0].Widget != nil {
		t.Fatalf("source cell should be empty after the move")
	}
	nested := table.Rows[0].Cells[1].Widget.NestedTable
	moved := nested.Rows[1].Cells[1].Widget
	if moved == nil || moved.ValueBinding != "{{ note }}" {
		t.Fatalf("moved widget missing in nested table: %+v", moved)
	}
	if got := c.Bindings().Value("{{ note }}", ""); got != "hello" {
		t.Fatalf("value: want hello, got %q", got)
	}
}

func TestApply_MissingNestedTable(t *testing.T) {
	s := script.Script{Steps: []script.Step{{Op: script.OpAddRow, In: []script.Coord{{Row: 0, Col: 0}}}}}
	_, err := script.Apply(context.Background(), canvas.New(), s)
	if !errors.Is(err, script.ErrRefused) {
		t.Fatalf("want ErrRefused, got %v", err)
	}
}
