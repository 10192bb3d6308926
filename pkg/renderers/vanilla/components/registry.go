package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formlayout/pkg/model"
	rendertemplate "github.com/goliatone/go-formlayout/pkg/render/template"
)

// Renderer writes the inner markup of one widget into buf.
type Renderer func(buf *bytes.Buffer, widget model.Widget, data ComponentData) error

// ComponentData carries the per-render state a component needs.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// Value is the resolved value of the widget binding.
	Value string
	// SelectedOption is the index of the chosen radio option, or -1.
	SelectedOption int
	// ControlID is unique per widget instance.
	ControlID string
}

// Descriptor names a component renderer.
type Descriptor struct {
	Name     string
	Renderer Renderer
}

// Registry maps widget types to component descriptors. Callers can register
// new components or override defaults.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a copy that can be mutated independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with a widget type. Existing entries are
// replaced.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor of a widget type.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns the sorted registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:     src.Name,
		Renderer: src.Renderer,
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
