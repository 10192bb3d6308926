package canvas

import (
	"io"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/grid"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/selection"
	"github.com/goliatone/go-formlayout/pkg/widgets"
)

// Defaults for a fresh canvas.
const (
	DefaultRows    = 1
	DefaultColumns = grid.DefaultColumns
	CellIDPrefix   = "cell"
)

// Option customises a Canvas.
type Option func(*Canvas)

// WithLogger routes refusal and state-change records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canvas) {
		c.logger = logger
	}
}

// WithWidgets injects the widget palette used by PlaceWidget.
func WithWidgets(registry *widgets.Registry) Option {
	return func(c *Canvas) {
		c.widgets = registry
	}
}

// WithIDGenerator overrides identifier generation for cells, rows and widgets.
func WithIDGenerator(gen ids.Generator) Option {
	return func(c *Canvas) {
		c.ids = gen
	}
}

// WithProperties declares the bindable properties. Ignored when WithBindings
// is also supplied.
func WithProperties(properties []binding.Property) Option {
	return func(c *Canvas) {
		c.properties = properties
	}
}

// WithBindings shares an existing binding context with the canvas.
func WithBindings(ctx *binding.Context) Option {
	return func(c *Canvas) {
		c.bindings = ctx
	}
}

// WithSize sets the dimensions of the initial grid.
func WithSize(rows, cols int) Option {
	return func(c *Canvas) {
		c.rows, c.cols = rows, cols
	}
}

// WithTable starts the canvas from an existing table instead of an empty grid.
func WithTable(t model.Table) Option {
	return func(c *Canvas) {
		table := t
		c.initial = &table
	}
}

// Canvas owns the main grid, every nested table reachable from it, the
// per-grid selections, and the editing focus. Each mutation installs a new
// table value in one step; Snapshot readers never see a partial update.
//
// The embedded Editor edits the main grid. Nested returns editors for tables
// owned by table widgets.
type Canvas struct {
	Editor

	mu         sync.RWMutex
	table      model.Table
	selections map[string]selection.Set
	focus      Focus

	logger     *slog.Logger
	widgets    *widgets.Registry
	ids        ids.Generator
	bindings   *binding.Context
	properties []binding.Property
	rows, cols int
	initial    *model.Table
}

// New constructs a canvas, 1×3 unless configured otherwise.
func New(options ...Option) *Canvas {
	c := &Canvas{
		rows: DefaultRows,
		cols: DefaultColumns,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	c.Editor = Editor{canvas: c}
	return c
}

func (c *Canvas) applyDefaults() {
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.widgets == nil {
		c.widgets = widgets.NewRegistry()
	}
	c.ids = ids.OrDefault(c.ids)
	if c.bindings == nil {
		c.bindings = binding.NewContext(c.properties)
	}
	c.rows = max(c.rows, 1)
	c.cols = max(c.cols, 1)
	if c.initial != nil {
		c.table = *c.initial
		c.initial = nil
	} else {
		c.table = grid.New[model.Widget](c.rows, c.cols, c.ids, CellIDPrefix)
	}
	c.selections = make(map[string]selection.Set)
	c.focus = noFocus()
}

// Snapshot returns the current main grid. The value is never mutated by the
// canvas afterwards.
func (c *Canvas) Snapshot() model.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// Load replaces the whole layout and resets selections and focus.
func (c *Canvas) Load(t model.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
	c.resetLocked()
	c.logger.Debug("canvas loaded", "rows", len(t.Rows))
}

// Bindings returns the binding context shared by the canvas.
func (c *Canvas) Bindings() *binding.Context {
	return c.bindings
}

// Properties lists the declared bindable properties.
func (c *Canvas) Properties() []binding.Property {
	return c.bindings.Properties()
}

// Palette lists the widgets that can be placed.
func (c *Canvas) Palette() []widgets.Entry {
	return c.widgets.Palette()
}

// BindingTargets lists the bound widgets in rendered document order.
func (c *Canvas) BindingTargets() []model.BindingTarget {
	return model.BindingTargets(c.Snapshot())
}

// Focus returns the current editing focus.
func (c *Canvas) Focus() Focus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.focus.clone()
}

// Close drops the editing focus.
func (c *Canvas) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focus = noFocus()
}

func (c *Canvas) resetLocked() {
	clear(c.selections)
	c.focus = noFocus()
}

// structuralReset runs after a structural change to the grid at path: the
// focus returns to none and the selections of that grid and of every table
// nested below it are dropped.
func (c *Canvas) structuralReset(path Path) {
	for key := range c.selections {
		if path.isPrefixOfKey(key) {
			delete(c.selections, key)
		}
	}
	c.focus = noFocus()
}

// SelectedCellIDs returns the ids of the origin cells selected in any grid.
func (c *Canvas) SelectedCellIDs() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool)
	var walk func(t model.Table, path Path)
	walk = func(t model.Table, path Path) {
		sel := c.selections[path.Key()]
		t.Walk(func(row, col int, cell model.Cell) {
			if sel.Contains(selection.Coord{Row: row, Col: col}) {
				out[cell.ID] = true
			}
			if w := cell.Widget; w != nil && w.NestedTable != nil {
				walk(*w.NestedTable, path.Child(cell.ID, w.ID))
			}
		})
	}
	walk(c.table, nil)
	return out
}
