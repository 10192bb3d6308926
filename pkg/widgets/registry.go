package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formlayout/pkg/grid"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
)

// Prefixes used for generated identifiers.
const (
	WidgetIDPrefix = "widget"
	NestedIDPrefix = "nested"
)

// Default sizes and labels applied by the built-in factories.
const (
	NestedRows         = 2
	NestedColumns      = 2
	DefaultLabel       = "Label"
	DefaultPlaceholder = "Enter text..."
	DefaultCheckbox    = "Checkbox"
	DefaultRadioPrompt = "Choose one"
)

// Factory builds a freshly initialised widget of one type. gen supplies the
// widget id and, for tables, the nested cell ids.
type Factory func(gen ids.Generator) model.Widget

// Entry describes one palette item.
type Entry struct {
	Type    model.WidgetType
	Label   string
	Icon    string
	Factory Factory
}

type rule struct {
	entry    Entry
	priority int
	order    int
}

// Registry holds the widget palette. Entries are listed by descending priority
// and then registration order. Registering a type twice replaces the earlier
// entry.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
	seq   int
}

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds or replaces the palette entry for entry.Type. Entries without
// a valid type or factory are ignored.
func (r *Registry) Register(entry Entry, priority int) {
	if r == nil || entry.Factory == nil || !entry.Type.Valid() {
		return
	}
	entry.Label = strings.TrimSpace(entry.Label)
	if entry.Label == "" {
		entry.Label = string(entry.Type)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.rules {
		if existing.entry.Type == entry.Type {
			r.rules[i].entry = entry
			r.rules[i].priority = priority
			return
		}
	}
	r.rules = append(r.rules, rule{entry: entry, priority: priority, order: r.seq})
	r.seq++
}

// Palette returns the registered entries in display order.
func (r *Registry) Palette() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	out := make([]Entry, 0, len(rules))
	for _, entry := range rules {
		out = append(out, entry.entry)
	}
	return out
}

// Lookup returns the palette entry registered for t.
func (r *Registry) Lookup(t model.WidgetType) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.rules {
		if entry.entry.Type == t {
			return entry.entry, true
		}
	}
	return Entry{}, false
}

// Create builds a default widget of type t.
func (r *Registry) Create(t model.WidgetType, gen ids.Generator) (model.Widget, bool) {
	entry, ok := r.Lookup(t)
	if !ok {
		return model.Widget{}, false
	}
	return entry.Factory(ids.OrDefault(gen)), true
}

// ParseDrop resolves a drag payload ("  Radio ") to a registered widget type.
func (r *Registry) ParseDrop(payload string) (model.WidgetType, bool) {
	t, ok := model.ParseWidgetType(payload)
	if !ok {
		return "", false
	}
	if _, registered := r.Lookup(t); !registered {
		return "", false
	}
	return t, true
}

// NewNestedTable builds the empty 2×2 grid a table widget starts with.
func NewNestedTable(gen ids.Generator) model.Table {
	return grid.New[model.Widget](NestedRows, NestedColumns, gen, NestedIDPrefix)
}

func (r *Registry) registerBuiltins() {
	r.Register(Entry{
		Type:  model.WidgetInput,
		Label: "Input",
		Icon:  "▭",
		Factory: func(gen ids.Generator) model.Widget {
			return model.Widget{
				ID:          gen(WidgetIDPrefix),
				Type:        model.WidgetInput,
				Label:       DefaultLabel,
				Placeholder: DefaultPlaceholder,
			}
		},
	}, 50)

	r.Register(Entry{
		Type:  model.WidgetCheckbox,
		Label: "Checkbox",
		Icon:  "☑",
		Factory: func(gen ids.Generator) model.Widget {
			return model.Widget{ID: gen(WidgetIDPrefix), Type: model.WidgetCheckbox, Label: DefaultCheckbox}
		},
	}, 40)

	r.Register(Entry{
		Type:  model.WidgetRadio,
		Label: "Radio",
		Icon:  "◉",
		Factory: func(gen ids.Generator) model.Widget {
			return model.Widget{
				ID:      gen(WidgetIDPrefix),
				Type:    model.WidgetRadio,
				Label:   DefaultRadioPrompt,
				Options: []string{model.DefaultOptionLabel(1), model.DefaultOptionLabel(2)},
			}
		},
	}, 30)

	r.Register(Entry{
		Type:  model.WidgetTable,
		Label: "Table",
		Icon:  "⊞",
		Factory: func(gen ids.Generator) model.Widget {
			nested := NewNestedTable(gen)
			return model.Widget{ID: gen(WidgetIDPrefix), Type: model.WidgetTable, NestedTable: &nested}
		},
	}, 20)

	r.Register(Entry{
		Type:  model.WidgetLabel,
		Label: "Label",
		Icon:  "Aa",
		Factory: func(gen ids.Generator) model.Widget {
			return model.Widget{ID: gen(WidgetIDPrefix), Type: model.WidgetLabel, Label: DefaultLabel}
		},
	}, 10)
}
