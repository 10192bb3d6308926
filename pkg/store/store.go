package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
)

// ErrNotFound reports an unknown layout id.
var ErrNotFound = errors.New("store: layout not found")

// DefaultName is given to layouts saved with a blank name.
const DefaultName = "Untitled"

// IDPrefix prefixes generated layout ids.
const IDPrefix = "layout"

// Layout is a named, saved copy of a canvas.
type Layout struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Table     model.Table `json:"state" yaml:"state"`
	UpdatedAt time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

// Store persists named layouts. Implementations deep-copy tables on the way
// in and out, so callers never share grid values with the store.
type Store interface {
	// Add saves t under name and returns the stored layout.
	Add(ctx context.Context, name string, t model.Table) (Layout, error)
	// Update replaces the table of layout id. A non-blank name renames it.
	Update(ctx context.Context, id string, t model.Table, name string) (Layout, error)
	// Remove deletes layout id.
	Remove(ctx context.Context, id string) error
	// Get returns layout id.
	Get(ctx context.Context, id string) (Layout, error)
	// List returns every layout in insertion order.
	List(ctx context.Context) ([]Layout, error)
}

// Option customises a store implementation.
type Option func(*options)

type options struct {
	logger *slog.Logger
	ids    ids.Generator
	now    func() time.Time
}

// WithLogger sets the logger used for store activity.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator overrides layout id generation.
func WithIDGenerator(gen ids.Generator) Option {
	return func(o *options) {
		o.ids = gen
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	out := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&out)
	}
	if out.logger == nil {
		out.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out.ids = ids.OrDefault(out.ids)
	if out.now == nil {
		out.now = time.Now
	}
	return out
}

// NormalizeName trims name and falls back to DefaultName.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultName
	}
	return trimmed
}

func cloneLayout(l Layout) Layout {
	l.Table = model.CloneTable(l.Table)
	return l
}
