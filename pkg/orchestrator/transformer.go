package orchestrator

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/script"
)

// Transformer edits the canvas after the layout is loaded and before it is
// rendered.
type Transformer interface {
	Transform(ctx context.Context, c *canvas.Canvas) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, c *canvas.Canvas) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, c *canvas.Canvas) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, c)
}

// ScriptTransformer applies an edit script.
type ScriptTransformer struct {
	script script.Script
}

// NewScriptTransformer wraps s.
func NewScriptTransformer(s script.Script) *ScriptTransformer {
	return &ScriptTransformer{script: s}
}

// NewScriptTransformerFromFS reads the script at path within fsys.
func NewScriptTransformerFromFS(fsys fs.FS, path string) (*ScriptTransformer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("orchestrator: script fs is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read script %s: %w", path, err)
	}
	s, err := script.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %s: %w", path, err)
	}
	return NewScriptTransformer(s), nil
}

// Transform applies the script to c.
func (t *ScriptTransformer) Transform(ctx context.Context, c *canvas.Canvas) error {
	if t == nil {
		return nil
	}
	_, err := script.Apply(ctx, c, t.script)
	return err
}
