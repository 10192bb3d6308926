package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// Memory keeps layouts in process memory.
type Memory struct {
	mu      sync.RWMutex
	opts    options
	order   []string
	layouts map[string]Layout
}

// NewMemory constructs an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:    buildOptions(opts),
		layouts: make(map[string]Layout),
	}
}

// Add implements Store.
func (m *Memory) Add(_ context.Context, name string, t model.Table) (Layout, error) {
	layout := Layout{
		ID:        m.opts.ids(IDPrefix),
		Name:      NormalizeName(name),
		Table:     model.CloneTable(t),
		UpdatedAt: m.opts.now().UTC(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts[layout.ID] = layout
	m.order = append(m.order, layout.ID)
	m.opts.logger.Debug("layout added", "id", layout.ID, "name", layout.Name)
	return cloneLayout(layout), nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, id string, t model.Table, name string) (Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	layout, ok := m.layouts[id]
	if !ok {
		return Layout{}, fmt.Errorf("store: update %s: %w", id, ErrNotFound)
	}
	layout.Table = model.CloneTable(t)
	if strings.TrimSpace(name) != "" {
		layout.Name = NormalizeName(name)
	}
	layout.UpdatedAt = m.opts.now().UTC()
	m.layouts[id] = layout
	return cloneLayout(layout), nil
}

// Remove implements Store.
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layouts[id]; !ok {
		return fmt.Errorf("store: remove %s: %w", id, ErrNotFound)
	}
	delete(m.layouts, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.opts.logger.Debug("layout removed", "id", id)
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, id string) (Layout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	layout, ok := m.layouts[id]
	if !ok {
		return Layout{}, fmt.Errorf("store: get %s: %w", id, ErrNotFound)
	}
	return cloneLayout(layout), nil
}

// List implements Store.
func (m *Memory) List(_ context.Context) ([]Layout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Layout, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneLayout(m.layouts[id]))
	}
	return out, nil
}
