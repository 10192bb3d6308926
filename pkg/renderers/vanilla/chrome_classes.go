package vanilla

import "github.com/goliatone/go-formlayout/pkg/export"

// Grid prefixes. Main-grid classes read "canvas-*", nested ones "embedded-*".
const (
	PrefixCanvas   = "canvas"
	PrefixEmbedded = "embedded"
)

// Wrapper classes matched by the export pass.
const (
	ClassWidget      = export.ClassWidget
	ClassWidgetNoPad = export.ClassWidgetNoPad
	ClassNestedCell  = export.ClassNestedCell
	ClassNestedTable = export.ClassNestedTable
)

func cellClass(prefix, suffix string) string {
	return prefix + "-cell" + suffix
}
