// Package formlayout is the entry point of the form layout builder: load a
// layout, edit it, and render it as HTML, terminal text, a workbook or an
// interactive fill session.
package formlayout

import (
	"context"

	"github.com/goliatone/go-formlayout/pkg/orchestrator"
	"github.com/goliatone/go-formlayout/pkg/render"
)

// Request aliases orchestrator.Request for callers of the root package.
type Request = orchestrator.Request

// RenderOptions describes the mode, bindings and selection a renderer sees.
type RenderOptions = render.RenderOptions

// Render modes.
const (
	ModeBuilder = render.ModeBuilder
	ModePreview = render.ModePreview
	ModeExport  = render.ModeExport
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// ExportHTML loads the layout at path and returns its export markup, with
// every bound control carrying its `{{ key }}` expression.
func ExportHTML(ctx context.Context, path string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		LayoutPath: path,
		Renderer:   "vanilla",
		Mode:       render.ModeExport,
	})
}

// Generate runs req through a default orchestrator.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}
