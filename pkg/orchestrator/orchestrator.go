package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/document"
	"github.com/goliatone/go-formlayout/pkg/ids"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
	"github.com/goliatone/go-formlayout/pkg/renderers/terminal"
	"github.com/goliatone/go-formlayout/pkg/renderers/tui"
	"github.com/goliatone/go-formlayout/pkg/renderers/vanilla"
	"github.com/goliatone/go-formlayout/pkg/renderers/xlsx"
	"github.com/goliatone/go-formlayout/pkg/script"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithProperties declares the bindable properties of every canvas the
// orchestrator builds.
func WithProperties(properties []binding.Property) Option {
	return func(o *Orchestrator) {
		o.properties = properties
	}
}

// WithTransformers registers transformers that run, in order, after the
// request's own script.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithIDGenerator sets the id generator handed to new canvases.
func WithIDGenerator(gen ids.Generator) Option {
	return func(o *Orchestrator) {
		o.ids = gen
	}
}

// WithLogger sets the logger shared with canvases and default renderers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator turns a stored layout into rendered output. It applies
// sensible defaults (every built-in renderer, vanilla first) while remaining
// open to dependency injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	properties      []binding.Property
	transformers    []Transformer
	ids             ids.Generator
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one pipeline run.
type Request struct {
	// Layout is used as is when set.
	Layout *model.Table
	// LayoutPath names a JSON or YAML layout document. Ignored when Layout is
	// set; with neither, a fresh canvas of Rows×Columns is used.
	LayoutPath string
	Rows       int
	Columns    int

	// Script runs before the registered transformers.
	Script *script.Script
	// Values seeds the global binding scope, keyed by property key.
	Values map[string]string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string
	Mode     render.Mode
	Sanitize bool
}

// Canvas builds the canvas described by req: layout, bindings, script and
// transformers.
func (o *Orchestrator) Canvas(ctx context.Context, req Request) (*canvas.Canvas, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	options := []canvas.Option{
		canvas.WithLogger(o.logger),
		canvas.WithIDGenerator(o.ids),
		canvas.WithProperties(o.properties),
	}
	switch {
	case req.Layout != nil:
		options = append(options, canvas.WithTable(*req.Layout))
	case req.LayoutPath != "":
		layout, err := document.ReadFile(req.LayoutPath)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load layout: %w", err)
		}
		options = append(options, canvas.WithTable(layout))
	case req.Rows > 0 || req.Columns > 0:
		options = append(options, canvas.WithSize(max(req.Rows, 1), max(req.Columns, 1)))
	}
	c := canvas.New(options...)

	for key, value := range req.Values {
		c.Bindings().SetValue(binding.Expression(key), value, "")
	}

	transformers := o.transformers
	if req.Script != nil {
		transformers = append([]Transformer{NewScriptTransformer(*req.Script)}, transformers...)
	}
	for _, t := range transformers {
		if t == nil {
			continue
		}
		if err := t.Transform(ctx, c); err != nil {
			return nil, fmt.Errorf("orchestrator: transform canvas: %w", err)
		}
	}
	return c, nil
}

// Generate builds the canvas and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	c, err := o.Canvas(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, c, req.Renderer, req.Mode, req.Sanitize)
}

// Render renders an existing canvas with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, c *canvas.Canvas, rendererName string, mode render.Mode, sanitize bool) ([]byte, error) {
	renderer, err := o.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	table, opts := render.FromCanvas(c, mode)
	opts.Sanitize = sanitize

	output, err := renderer.Render(ctx, table, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("layout rendered", "renderer", renderer.Name(), "mode", mode, "bytes", len(output))
	return output, nil
}

// Renderer returns the renderer Generate would use for name.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	return o.rendererFor(name)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.registry == nil {
		o.registry, o.initialiseErr = DefaultRegistry(o.logger)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// DefaultRegistry registers every built-in renderer: vanilla (HTML),
// terminal, xlsx and tui.
func DefaultRegistry(logger *slog.Logger) (*render.Registry, error) {
	registry := render.NewRegistry()
	html, err := vanilla.New(vanilla.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	registry.MustRegister(html)
	registry.MustRegister(terminal.New())
	registry.MustRegister(xlsx.New(xlsx.WithLogger(logger)))
	registry.MustRegister(tui.New(tui.WithLogger(logger)))
	return registry, nil
}
