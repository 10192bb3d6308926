package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formlayout/pkg/export"
	"github.com/goliatone/go-formlayout/pkg/model"
	"github.com/goliatone/go-formlayout/pkg/render"
	rendertemplate "github.com/goliatone/go-formlayout/pkg/render/template"
	gotemplate "github.com/goliatone/go-formlayout/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formlayout/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formlayout/pkg/selection"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	logger           *slog.Logger
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the widget component registry. The registry is
// cloned so later registrations do not leak into the renderer.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry.Clone()
		}
	}
}

// WithLogger sets the logger used for template tracing and export
// diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithInlineStylesheet embeds the builder stylesheet in the canvas markup.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer produces HTML for a layout. Builder markup is rendered first;
// preview and export output are derived from it by the export pass.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	components   *components.Registry
	logger       *slog.Logger
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithPreHooks(traceTemplate(cfg.logger)),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		components:   cfg.components,
		logger:       cfg.logger,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func traceTemplate(logger *slog.Logger) gotemplatepkg.PreHook {
	return func(hc *gotemplatepkg.HookContext) error {
		logger.Debug("render template", "template", hc.TemplateName)
		return nil
	}
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the canvas markup for options.Mode.
func (r *Renderer) Render(ctx context.Context, table model.Table, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mode := options.Mode
	if mode == "" {
		mode = render.ModeBuilder
	}

	grid, err := r.renderGrid(table, 0, options)
	if err != nil {
		return nil, err
	}
	stylesheet := ""
	if r.inlineStyles {
		stylesheet = defaultStylesheet()
	}
	page, err := r.templates.RenderTemplate("templates/canvas.tmpl", map[string]any{
		"mode":       string(mode),
		"grid":       grid,
		"canMerge":   canMerge(table, options.Selected),
		"stylesheet": stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}

	switch mode {
	case render.ModeBuilder:
		return []byte(page), nil
	case render.ModePreview:
		return r.finalize(page, export.WithSanitize(options.Sanitize))
	case render.ModeExport:
		return r.finalize(page,
			export.WithTargets(model.BindingTargets(table)),
			export.WithSanitize(options.Sanitize),
		)
	default:
		return nil, fmt.Errorf("vanilla renderer: unsupported mode %q", mode)
	}
}

func (r *Renderer) finalize(page string, options ...export.Option) ([]byte, error) {
	options = append(options, export.WithLogger(r.logger))
	out, err := export.Finalize([]byte(page), options...)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderGrid(t model.Table, depth int, options render.RenderOptions) (string, error) {
	prefix := PrefixCanvas
	if depth > 0 {
		prefix = PrefixEmbedded
	}
	rowCount, colCount := t.Dimensions()

	rows := make([]any, 0, len(t.Rows))
	for ri, row := range t.Rows {
		cells := make([]any, 0, len(row.Cells))
		for ci, cell := range row.Cells {
			if t.ShouldSkipRendering(ri, ci) {
				continue
			}
			view, err := r.cellView(cell, prefix, depth, options)
			if err != nil {
				return "", err
			}
			cells = append(cells, view)
		}
		rows = append(rows, map[string]any{"id": row.ID, "cells": cells})
	}

	out, err := r.templates.RenderTemplate("templates/grid.tmpl", map[string]any{
		"prefix":   prefix,
		"rowCount": strconv.Itoa(rowCount),
		"colCount": strconv.Itoa(colCount),
		"rows":     rows,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render grid: %w", err)
	}
	return out, nil
}

func (r *Renderer) cellView(cell model.Cell, prefix string, depth int, options render.RenderOptions) (map[string]any, error) {
	span := cell.Span()
	classes := []string{cellClass(prefix, "")}
	if !span.IsUnit() {
		classes = append(classes, cellClass(prefix, "--merged"))
	}
	if options.Selected[cell.ID] {
		classes = append(classes, cellClass(prefix, "-selected"))
	}
	if options.FocusCellID != "" && options.FocusCellID == cell.ID {
		classes = append(classes, cellClass(prefix, "-focused"))
	}
	classes = append(classes, sanitizeClassList(cell.ClassName))

	content := ""
	if cell.Widget != nil {
		var err error
		content, err = r.renderWidget(cell.ID, *cell.Widget, depth, options)
		if err != nil {
			return nil, err
		}
	}

	view := map[string]any{
		"id":      cell.ID,
		"row":     strconv.Itoa(cell.RowIndex),
		"col":     strconv.Itoa(cell.ColIndex),
		"classes": joinClasses(classes...),
		"content": content,
	}
	if span.ColSpan > 1 {
		view["colspan"] = strconv.Itoa(span.ColSpan)
	}
	if span.RowSpan > 1 {
		view["rowspan"] = strconv.Itoa(span.RowSpan)
	}
	return view, nil
}

func (r *Renderer) renderWidget(cellID string, w model.Widget, depth int, options render.RenderOptions) (string, error) {
	nested := depth > 0
	w.ClassNames = sanitizeClassNames(w.ClassNames)
	wrapper := ""
	if w.ClassNames != nil {
		wrapper = w.ClassNames.Wrapper
	}

	var classes, removeClass, body string
	role := export.RoleWidget
	if nested {
		role = export.RoleCell
	}
	if w.IsTable() {
		role = export.RoleTable
		if nested {
			classes = joinClasses(ClassNestedCell, ClassNestedTable, wrapper)
		} else {
			classes = joinClasses(ClassWidget, ClassWidgetNoPad, ClassWidget+"--table", wrapper)
		}
		var err error
		body, err = r.renderEmbedded(w, depth, options)
		if err != nil {
			return "", err
		}
	} else {
		descriptor, ok := r.components.Descriptor(string(w.Type))
		if !ok {
			return "", fmt.Errorf("vanilla renderer: no component for widget type %q", w.Type)
		}
		selected, ok := options.SelectedOption(w)
		if !ok {
			selected = -1
		}
		var buf bytes.Buffer
		err := descriptor.Renderer(&buf, w, components.ComponentData{
			Template:       r.templates,
			Value:          options.Value(w.ValueBinding, w.ID),
			SelectedOption: selected,
			ControlID:      controlID(w.ID),
		})
		if err != nil {
			return "", fmt.Errorf("vanilla renderer: widget %s: %w", w.ID, err)
		}
		body = buf.String()
		if nested {
			classes = joinClasses(ClassNestedCell, ClassNestedCell+"--"+string(w.Type), wrapper)
		} else {
			classes = joinClasses(ClassWidget, ClassWidget+"--"+string(w.Type), wrapper)
		}
	}
	removeClass = "widget-remove"
	if nested {
		removeClass = "widget-cell-remove"
	}

	out, err := r.templates.RenderTemplate("templates/widget.tmpl", map[string]any{
		"id":          w.ID,
		"type":        string(w.Type),
		"classes":     classes,
		"role":        role,
		"removeClass": removeClass,
		"cellId":      cellID,
		"body":        body,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render widget: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderEmbedded(w model.Widget, depth int, options render.RenderOptions) (string, error) {
	grid := ""
	if w.NestedTable != nil {
		var err error
		grid, err = r.renderGrid(*w.NestedTable, depth+1, options)
		if err != nil {
			return "", err
		}
	}
	out, err := r.templates.RenderTemplate("templates/embedded.tmpl", map[string]any{
		"widgetId": w.ID,
		"grid":     grid,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render nested table: %w", err)
	}
	return out, nil
}

// canMerge reports whether the cells selected on the main grid form a
// mergeable rectangle.
func canMerge(t model.Table, selected map[string]bool) bool {
	if len(selected) == 0 {
		return false
	}
	var set selection.Set
	for id := range selected {
		if row, col, ok := t.FindCell(id); ok {
			set = set.Add(selection.Coord{Row: row, Col: col})
		}
	}
	_, ok := set.Mergeable()
	return ok
}
