package render

import (
	"context"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// Renderer converts a layout table into a byte representation (HTML, text,
// spreadsheet).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, table model.Table, options RenderOptions) ([]byte, error)
}
