package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// Library tracks which saved layout is currently selected on top of a Store.
type Library struct {
	store Store

	mu       sync.RWMutex
	selected string
}

// NewLibrary wraps s.
func NewLibrary(s Store) *Library {
	return &Library{store: s}
}

// Store returns the underlying store.
func (l *Library) Store() Store {
	return l.store
}

// Save stores t as a new layout and selects it.
func (l *Library) Save(ctx context.Context, name string, t model.Table) (Layout, error) {
	layout, err := l.store.Add(ctx, name, t)
	if err != nil {
		return Layout{}, err
	}
	l.mu.Lock()
	l.selected = layout.ID
	l.mu.Unlock()
	return layout, nil
}

// SaveSelected overwrites the selected layout with t, or saves a new one when
// nothing is selected. A non-blank name renames the layout.
func (l *Library) SaveSelected(ctx context.Context, name string, t model.Table) (Layout, error) {
	id := l.SelectedID()
	if id == "" {
		return l.Save(ctx, name, t)
	}
	return l.store.Update(ctx, id, t, name)
}

// Select marks layout id as selected and returns it.
func (l *Library) Select(ctx context.Context, id string) (Layout, error) {
	layout, err := l.store.Get(ctx, id)
	if err != nil {
		return Layout{}, fmt.Errorf("store: select: %w", err)
	}
	l.mu.Lock()
	l.selected = id
	l.mu.Unlock()
	return layout, nil
}

// SelectedID returns the selected layout id, or "" when none is selected.
func (l *Library) SelectedID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selected
}

// Selected returns the selected layout.
func (l *Library) Selected(ctx context.Context) (Layout, bool, error) {
	id := l.SelectedID()
	if id == "" {
		return Layout{}, false, nil
	}
	layout, err := l.store.Get(ctx, id)
	if err != nil {
		return Layout{}, false, err
	}
	return layout, true, nil
}

// Remove deletes layout id and clears the selection when it pointed there.
func (l *Library) Remove(ctx context.Context, id string) error {
	if err := l.store.Remove(ctx, id); err != nil {
		return err
	}
	l.mu.Lock()
	if l.selected == id {
		l.selected = ""
	}
	l.mu.Unlock()
	return nil
}

// List returns every saved layout.
func (l *Library) List(ctx context.Context) ([]Layout, error) {
	return l.store.List(ctx)
}
