package formlayout

import (
	"io/fs"

	vanilla "github.com/goliatone/go-formlayout/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the builder stylesheet.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
