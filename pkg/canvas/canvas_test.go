package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/selection"
)

func newTestCanvas(t *testing.T, options ...Option) *Canvas {
	t.Helper()
	return New(append([]Option{WithIDGenerator(ids.Sequence())}, options...)...)
}

func cellAt(t *testing.T, tbl model.Table, row, col int) model.Cell {
	t.Helper()
	cell, ok := tbl.CellAt(row, col)
	if !ok {
		t.Fatalf("no cell at (%d,%d)", row, col)
	}
	return cell
}

func TestNew_DefaultsToOneByThree(t *testing.T) {
	c := newTestCanvas(t)
	rows, cols := c.Dimensions()
	if rows != 1 || cols != 3 {
		t.Fatalf("initial grid: want 1x3, got %dx%d", rows, cols)
	}
	if c.Focus().Active() {
		t.Fatalf("a fresh canvas should have no focus")
	}
}

func TestScenario_GrowMergePlaceUnmerge(t *testing.T) {
	c := newTestCanvas(t)
	c.AddRow()
	c.AddColumn()

	snap := c.Snapshot()
	if len(snap.Rows) != 2 {
		t.Fatalf("rows: want 2, got %d", len(snap.Rows))
	}
	for i, row := range snap.Rows {
		if len(row.Cells) != 4 {
			t.Fatalf("row %d: want 4 cells, got %d", i, len(row.Cells))
		}
	}

	if !c.Merge(0, 0, 1, 1) {
		t.Fatalf("merge should succeed")
	}
	placed, ok := c.PlaceWidget(0, 0, model.WidgetInput)
	if !ok {
		t.Fatalf("place on merged origin should succeed")
	}
	if !c.Unmerge(1, 1) {
		t.Fatalf("unmerge from a covered cell should succeed")
	}

	snap = c.Snapshot()
	if got := cellAt(t, snap, 0, 0).Widget; got == nil || got.ID != placed.ID {
		t.Fatalf("widget should stay on the origin, got %+v", got)
	}
	for _, pos := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		cell := cellAt(t, snap, pos[0], pos[1])
		if cell.Widget != nil {
			t.Fatalf("cell %v should be empty after unmerge", pos)
		}
		if cell.ColSpan != 1 || cell.RowSpan != 1 || !cell.IsMergedOrigin {
			t.Fatalf("cell %v should be an independent 1x1 cell, got %+v", pos, cell)
		}
	}
}

func TestStructural_MinimumSizeAndResets(t *testing.T) {
	c := newTestCanvas(t, WithSize(1, 1))
	if c.RemoveRow() || c.RemoveColumn() {
		t.Fatalf("a 1x1 grid must not shrink")
	}

	c.AddColumn()
	c.ClickCell(0, 0, Hit{})
	c.ClickCell(0, 1, Hit{Modifier: true})
	if !c.Focus().Active() || c.Selection().Empty() {
		t.Fatalf("expected focus and selection before the structural change")
	}
	c.AddRow()
	if c.Focus().Active() {
		t.Fatalf("structural change should clear the focus")
	}
	if !c.Selection().Empty() {
		t.Fatalf("structural change should clear the selection")
	}
}

func TestPlaceWidget_Rules(t *testing.T) {
	c := newTestCanvas(t)
	if _, ok := c.PlaceWidget(0, 0, model.WidgetRadio); !ok {
		t.Fatalf("placing on an empty cell should succeed")
	}
	if _, ok := c.PlaceWidget(0, 0, model.WidgetInput); ok {
		t.Fatalf("placing on an occupied cell should fail")
	}
	c.Merge(0, 1, 0, 2)
	if _, ok := c.PlaceWidget(0, 2, model.WidgetInput); ok {
		t.Fatalf("placing on a covered cell should fail")
	}
	if _, ok := c.PlaceWidget(4, 4, model.WidgetInput); ok {
		t.Fatalf("placing out of bounds should fail")
	}

	w := cellAt(t, c.Snapshot(), 0, 0).Widget
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, w.Options); diff != "" {
		t.Fatalf("radio defaults (-want +got):\n%s", diff)
	}
}

func TestMerge_RefusalsLeaveStateUntouched(t *testing.T) {
	c := newTestCanvas(t, WithSize(2, 2))
	before := c.Snapshot()
	cases := [][4]int{
		{0, 0, 0, 0}, // single cell
		{1, 1, 0, 0}, // reversed corners
		{0, 0, 2, 2}, // out of range
	}
	for _, rect := range cases {
		if c.Merge(rect[0], rect[1], rect[2], rect[3]) {
			t.Fatalf("merge %v should be refused", rect)
		}
	}
	if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
		t.Fatalf("refused merges changed state (-want +got):\n%s", diff)
	}
}

func TestMergeSelection_RequiresSolidRectangle(t *testing.T) {
	c := newTestCanvas(t, WithSize(2, 2))
	c.ClickCell(0, 0, Hit{Modifier: true})
	c.ClickCell(1, 1, Hit{Modifier: true})
	if got := c.Selection().Len(); got != 4 {
		t.Fatalf("corner gesture should select 4 cells, got %d", got)
	}
	c.ClickCell(1, 0, Hit{Modifier: true})
	if c.CanMergeSelection() || c.MergeSelection() {
		t.Fatalf("an L-shaped selection must not merge")
	}
	c.ClickCell(1, 0, Hit{Modifier: true})
	if !c.MergeSelection() {
		t.Fatalf("a full 2x2 selection should merge")
	}
	if span := c.Snapshot().SpanAt(1, 1); span.ColSpan != 2 || span.RowSpan != 2 {
		t.Fatalf("merged span: want 2x2, got %+v", span)
	}
	if !c.Selection().Empty() {
		t.Fatalf("merge should clear the selection")
	}
}

func TestClickCell_FocusTargets(t *testing.T) {
	c := newTestCanvas(t)
	radio, _ := c.PlaceWidget(0, 0, model.WidgetRadio)
	c.PlaceWidget(0, 1, model.WidgetTable)
	cellID := cellAt(t, c.Snapshot(), 0, 0).ID

	cases := []struct {
		name    string
		hit     Hit
		target  TargetKind
		element string
		option  int
	}{
		{name: "cell padding", hit: Hit{}, target: TargetCell, option: -1},
		{name: "wrapper", hit: Hit{Widget: true}, target: TargetWidget, option: -1},
		{name: "inner", hit: Hit{Widget: true, Inner: true}, target: TargetWidgetInner, option: -1},
		{name: "label element", hit: Hit{Widget: true, Inner: true, Element: "label"}, target: TargetElement, element: "label", option: -1},
		{name: "option element", hit: Hit{Widget: true, Element: "option-1"}, target: TargetElement, element: "option-1", option: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !c.ClickCell(0, 0, tc.hit) {
				t.Fatalf("click should be handled")
			}
			want := Focus{CellID: cellID, Target: tc.target, ElementKey: tc.element, OptionIndex: tc.option}
			if diff := cmp.Diff(want, c.Focus()); diff != "" {
				t.Fatalf("focus (-want +got):\n%s", diff)
			}
		})
	}

	before := c.Focus()
	if c.ClickCell(0, 1, Hit{Widget: true}) {
		t.Fatalf("clicks on a table widget should not take the focus")
	}
	if diff := cmp.Diff(before, c.Focus()); diff != "" {
		t.Fatalf("table click changed focus (-want +got):\n%s", diff)
	}

	c.Close()
	if c.Focus().Active() {
		t.Fatalf("close should clear the focus")
	}
	if w, ok := c.Widget(radio.ID); !ok || w.ID != radio.ID {
		t.Fatalf("widget lookup failed")
	}
}

func TestClickCell_PlainClickClearsSelection(t *testing.T) {
	c := newTestCanvas(t)
	c.ClickCell(0, 0, Hit{Modifier: true})
	c.ClickCell(0, 2, Hit{Modifier: true})
	if c.Selection().Len() != 3 {
		t.Fatalf("expected a three cell selection, got %d", c.Selection().Len())
	}
	c.ClickCell(0, 1, Hit{})
	if !c.Selection().Empty() {
		t.Fatalf("plain click should clear the selection")
	}
}

func TestRemoveWidget_ClearsFocusOnTarget(t *testing.T) {
	c := newTestCanvas(t)
	c.PlaceWidget(0, 0, model.WidgetInput)
	cellID := cellAt(t, c.Snapshot(), 0, 0).ID
	c.ClickCell(0, 0, Hit{Widget: true})

	if !c.RemoveWidget(cellID) {
		t.Fatalf("remove should succeed")
	}
	if c.Focus().Active() {
		t.Fatalf("removing the focused widget should clear focus")
	}
	if c.RemoveWidget(cellID) {
		t.Fatalf("removing from an empty cell should be a no-op")
	}
	if c.RemoveWidget("missing") {
		t.Fatalf("unknown cell should be a no-op")
	}
}

func TestMoveWidget(t *testing.T) {
	c := newTestCanvas(t)
	w, _ := c.PlaceWidget(0, 0, model.WidgetLabel)
	c.PlaceWidget(0, 2, model.WidgetInput)
	snap := c.Snapshot()
	from, to := cellAt(t, snap, 0, 0).ID, cellAt(t, snap, 0, 2).ID

	if c.MoveWidget(from, from, w) {
		t.Fatalf("moving onto the same cell should be a no-op")
	}
	if !c.MoveWidget(from, to, w) {
		t.Fatalf("move should succeed")
	}
	snap = c.Snapshot()
	if cellAt(t, snap, 0, 0).Widget != nil {
		t.Fatalf("source should be empty after move")
	}
	if got := cellAt(t, snap, 0, 2).Widget; got == nil || got.ID != w.ID {
		t.Fatalf("destination should hold the moved widget (overwriting), got %+v", got)
	}
}

func TestBindings_ByWidgetID(t *testing.T) {
	c := newTestCanvas(t)
	radio, _ := c.PlaceWidget(0, 0, model.WidgetRadio)
	c.SetOptions(radio.ID, []string{"A", "B"})
	c.SetOptionBinding(radio.ID, 0, "listValue1")
	c.SetOptionBinding(radio.ID, 1, "listValue2")

	w, _ := c.Widget(radio.ID)
	c.Bindings().SelectOption(w.Options, w.OptionBindings, "B", "")

	values := c.Bindings().Values()
	if values["listValue1"] != "" || values["listValue2"] != "B" {
		t.Fatalf("radio binding scenario broken: %v", values)
	}

	c.AddOption(radio.ID)
	w, _ = c.Widget(radio.ID)
	if diff := cmp.Diff([]string{"{{ listValue1 }}", "{{ listValue2 }}", ""}, w.OptionBindings); diff != "" {
		t.Fatalf("bindings after add option (-want +got):\n%s", diff)
	}

	input, _ := c.PlaceWidget(0, 1, model.WidgetInput)
	c.SetValueBinding(input.ID, "listValue3")
	c.SetValueBinding(input.ID, "")
	if w, _ := c.Widget(input.ID); w.ValueBinding != "" {
		t.Fatalf("blank key should clear the binding, got %q", w.ValueBinding)
	}
	if c.SetValueBinding("missing", "listValue1") {
		t.Fatalf("unknown widget id should be a no-op")
	}
}

func TestSelectRadioOption_PreviewsInInstanceScope(t *testing.T) {
	c := newTestCanvas(t)
	radio, _ := c.PlaceWidget(0, 0, model.WidgetRadio)
	c.SetOptionBinding(radio.ID, 0, "listValue1")
	c.SetOptionBinding(radio.ID, 1, "listValue2")
	cellID := cellAt(t, c.Snapshot(), 0, 0).ID

	if !c.SelectRadioOption(cellID, 1) {
		t.Fatalf("select option should succeed")
	}
	focus := c.Focus()
	if focus.OptionIndex != 1 || focus.ElementKey != "option-1" {
		t.Fatalf("unexpected focus %+v", focus)
	}
	if got := c.Bindings().Value("{{ listValue2 }}", radio.ID); got != "Option 2" {
		t.Fatalf("instance preview: want Option 2, got %q", got)
	}
	if got := c.Bindings().Values()["listValue2"]; got != "" {
		t.Fatalf("preview leaked into the global scope: %q", got)
	}

	c.RemoveOption(radio.ID, 1)
	if c.Focus().OptionIndex != -1 {
		t.Fatalf("removing the focused option should reset the option index")
	}

	c.RemoveWidget(cellID)
	if got := c.Bindings().Value("{{ listValue2 }}", radio.ID); got != "" {
		t.Fatalf("removed widget should drop its instance values, got %q", got)
	}
}

func TestApplyClassName(t *testing.T) {
	c := newTestCanvas(t)
	w, _ := c.PlaceWidget(0, 0, model.WidgetInput)

	c.ClickCell(0, 0, Hit{})
	c.ApplyClassName("cell-wide")
	c.ClickCell(0, 0, Hit{Widget: true})
	c.ApplyClassName("card")
	c.ClickCell(0, 0, Hit{Widget: true, Inner: true, Element: "label"})
	c.ApplyClassName("bold")

	cell := cellAt(t, c.Snapshot(), 0, 0)
	if cell.ClassName != "cell-wide" {
		t.Fatalf("cell class: want cell-wide, got %q", cell.ClassName)
	}
	got, _ := c.Widget(w.ID)
	want := &model.ClassNames{Wrapper: "card", Elements: map[string]string{"label": "bold"}}
	if diff := cmp.Diff(want, got.ClassNames); diff != "" {
		t.Fatalf("widget classes (-want +got):\n%s", diff)
	}

	c.Close()
	if c.ApplyClassName("ignored") {
		t.Fatalf("apply without focus should be a no-op")
	}
}

func TestNestedTable_IndependentOfOuterGrid(t *testing.T) {
	c := newTestCanvas(t)
	table, ok := c.PlaceWidget(0, 1, model.WidgetTable)
	if !ok {
		t.Fatalf("place table failed")
	}
	outerBefore := c.Snapshot()

	nested, ok := c.NestedAt(0, 1)
	if !ok {
		t.Fatalf("nested editor not found")
	}
	tbl, _ := nested.Table()
	rows, cols := tbl.Dimensions()
	if rows != 2 || cols != 2 {
		t.Fatalf("nested default: want 2x2, got %dx%d", rows, cols)
	}
	tbl.Walk(func(r, col int, cell model.Cell) {
		if cell.Widget != nil {
			t.Fatalf("nested cell (%d,%d) should start empty", r, col)
		}
	})

	if !nested.Merge(0, 0, 0, 1) {
		t.Fatalf("nested merge should succeed")
	}
	outerAfter := c.Snapshot()
	for r := range outerAfter.Rows {
		for col := range outerAfter.Rows[r].Cells {
			a, b := cellAt(t, outerBefore, r, col), cellAt(t, outerAfter, r, col)
			if a.ColSpan != b.ColSpan || a.RowSpan != b.RowSpan || a.IsMergedOrigin != b.IsMergedOrigin || a.ID != b.ID {
				t.Fatalf("outer cell (%d,%d) changed: %+v -> %+v", r, col, a, b)
			}
		}
	}
	w, _ := c.Widget(table.ID)
	if span := w.NestedTable.SpanAt(0, 1); span.ColSpan != 2 {
		t.Fatalf("nested span not installed: %+v", span)
	}
	if outerBefore.Rows[0].Cells[1].Widget.NestedTable.SpanAt(0, 1).ColSpan != 1 {
		t.Fatalf("nested merge mutated an earlier snapshot")
	}
}

func TestNestedTable_SelectionIsScopedPerGrid(t *testing.T) {
	c := newTestCanvas(t)
	c.PlaceWidget(0, 0, model.WidgetTable)
	nested, _ := c.NestedAt(0, 0)

	nested.ClickCell(0, 0, Hit{Modifier: true})
	nested.ClickCell(1, 1, Hit{Modifier: true})
	if nested.Selection().Len() != 4 {
		t.Fatalf("nested selection: want 4, got %d", nested.Selection().Len())
	}
	if !c.Selection().Empty() {
		t.Fatalf("outer selection must stay empty")
	}

	c.ClickCell(0, 2, Hit{Modifier: true})
	if nested.Selection().Len() != 4 {
		t.Fatalf("outer selection changes must not touch the nested one")
	}

	c.AddColumn()
	if !nested.Selection().Empty() {
		t.Fatalf("outer structural change should drop nested selections")
	}
}

func TestNestedTable_StateDroppedWithItsTable(t *testing.T) {
	// engage focuses a widget inside the nested grid of the table at (0,0)
	// and selects two of its cells.
	engage := func(t *testing.T, c *Canvas) *Editor {
		t.Helper()
		nested, ok := c.NestedAt(0, 0)
		if !ok {
			t.Fatalf("nested table missing")
		}
		nested.PlaceWidget(0, 0, model.WidgetInput)
		nested.ClickCell(0, 0, Hit{Widget: true})
		nested.ClickCell(1, 1, Hit{Modifier: true})
		nested.ClickCell(1, 0, Hit{Modifier: true})
		if !c.Focus().Nested() || nested.Selection().Len() != 2 {
			t.Fatalf("setup: want nested focus and two selected cells, got %+v / %d", c.Focus(), nested.Selection().Len())
		}
		return nested
	}
	assertDropped := func(t *testing.T, c *Canvas, nested *Editor) {
		t.Helper()
		if c.Focus().Active() {
			t.Fatalf("focus inside the table should be cleared, got %+v", c.Focus())
		}
		if !nested.Selection().Empty() || len(c.SelectedCellIDs()) != 0 {
			t.Fatalf("selections inside the table should be dropped")
		}
	}

	t.Run("remove", func(t *testing.T) {
		c := newTestCanvas(t)
		c.PlaceWidget(0, 0, model.WidgetTable)
		nested := engage(t, c)
		if !c.RemoveWidget(cellAt(t, c.Snapshot(), 0, 0).ID) {
			t.Fatalf("remove should succeed")
		}
		assertDropped(t, c, nested)
	})

	t.Run("move", func(t *testing.T) {
		c := newTestCanvas(t)
		table, _ := c.PlaceWidget(0, 0, model.WidgetTable)
		nested := engage(t, c)
		snap := c.Snapshot()
		moved, _ := model.CellWidget(snap, cellAt(t, snap, 0, 0).ID, table.ID)
		if !c.MoveWidget(cellAt(t, snap, 0, 0).ID, cellAt(t, snap, 0, 2).ID, moved) {
			t.Fatalf("move should succeed")
		}
		assertDropped(t, c, nested)
	})

	t.Run("drop across grids", func(t *testing.T) {
		c := newTestCanvas(t)
		c.PlaceWidget(0, 0, model.WidgetTable)
		c.PlaceWidget(0, 2, model.WidgetTable)
		nested := engage(t, c)
		payload, ok := c.PickUp(cellAt(t, c.Snapshot(), 0, 0).ID)
		if !ok {
			t.Fatalf("pick up failed")
		}
		other, _ := c.NestedAt(0, 2)
		otherTable, _ := other.Table()
		if !other.DropMove(payload, otherTable.Rows[0].Cells[0].ID) {
			t.Fatalf("cross grid drop should succeed")
		}
		assertDropped(t, c, nested)
	})
}

func TestNestedTable_DeepPathsAndWidgetEdits(t *testing.T) {
	c := newTestCanvas(t)
	c.PlaceWidget(0, 0, model.WidgetTable)
	level1, _ := c.NestedAt(0, 0)
	level1.PlaceWidget(1, 1, model.WidgetTable)
	level2, ok := level1.NestedAt(1, 1)
	if !ok {
		t.Fatalf("second level editor not found")
	}
	if len(level2.Path()) != 2 {
		t.Fatalf("deep path: want 2 steps, got %d", len(level2.Path()))
	}

	input, ok := level2.PlaceWidget(0, 0, model.WidgetInput)
	if !ok {
		t.Fatalf("deep place failed")
	}
	if !c.SetLabel(input.ID, "Deep") {
		t.Fatalf("widget edits should reach nested tables")
	}
	if w, _ := c.Widget(input.ID); w.Label != "Deep" {
		t.Fatalf("deep label not applied: %q", w.Label)
	}

	level2.AddRow()
	if rows, _ := level2.Dimensions(); rows != 3 {
		t.Fatalf("deep add row: want 3 rows, got %d", rows)
	}
	tbl, _ := level2.Table()
	if id := tbl.Rows[2].Cells[0].ID; id[:len(nestedPrefix)] != nestedPrefix {
		t.Fatalf("nested rows should use the nested prefix, got %q", id)
	}

	targets := c.BindingTargets()
	if len(targets) != 1 || targets[0].WidgetID != input.ID || targets[0].Depth != 2 {
		t.Fatalf("unexpected binding targets %+v", targets)
	}
}

func TestDropMove_AcrossGrids(t *testing.T) {
	c := newTestCanvas(t)
	label, _ := c.PlaceWidget(0, 0, model.WidgetLabel)
	table, _ := c.PlaceWidget(0, 1, model.WidgetTable)
	nested, _ := c.NestedAt(0, 1)

	payload, ok := c.PickUp(cellAt(t, c.Snapshot(), 0, 0).ID)
	if !ok {
		t.Fatalf("pick up failed")
	}
	nestedTable, _ := nested.Table()
	dest := nestedTable.Rows[1].Cells[0].ID
	if !nested.DropMove(payload, dest) {
		t.Fatalf("cross grid drop should succeed")
	}

	if cellAt(t, c.Snapshot(), 0, 0).Widget != nil {
		t.Fatalf("source cell should be empty")
	}
	nestedTable, _ = nested.Table()
	if got := nestedTable.Rows[1].Cells[0].Widget; got == nil || got.ID != label.ID {
		t.Fatalf("destination should hold the label, got %+v", got)
	}
	if nested.DropMove(payload, dest) {
		t.Fatalf("replaying a consumed payload should be refused")
	}

	tablePayload, _ := c.PickUp(cellAt(t, c.Snapshot(), 0, 1).ID)
	if tablePayload.Widget.ID != table.ID {
		t.Fatalf("unexpected payload %+v", tablePayload)
	}
	if nested.DropMove(tablePayload, nestedTable.Rows[0].Cells[0].ID) {
		t.Fatalf("a table must not be dropped into itself")
	}
}

func TestSelectionCoordinatesUseOrigins(t *testing.T) {
	c := newTestCanvas(t, WithSize(2, 2))
	c.Merge(0, 0, 1, 0)
	c.ClickCell(1, 0, Hit{Modifier: true})
	if !c.Selection().Contains(selection.Coord{Row: 0, Col: 0}) {
		t.Fatalf("clicking a covered cell should select its origin, got %v", c.Selection().Coords())
	}
}

func TestLoad_ResetsState(t *testing.T) {
	c := newTestCanvas(t)
	c.ClickCell(0, 0, Hit{})
	other := New(WithIDGenerator(ids.Sequence()), WithSize(3, 3)).Snapshot()
	c.Load(other)
	if c.Focus().Active() {
		t.Fatalf("load should clear focus")
	}
	if rows, cols := c.Dimensions(); rows != 3 || cols != 3 {
		t.Fatalf("loaded grid: want 3x3, got %dx%d", rows, cols)
	}
}
