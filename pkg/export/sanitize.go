package export

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	exportPolicyOnce sync.Once
	exportPolicy     *bluemonday.Policy
)

// Sanitize keeps only the elements and attributes form layouts use. Scripts,
// event handlers and unknown attributes are dropped.
func Sanitize(markup []byte) []byte {
	return exportSanitizer().SanitizeBytes(markup)
}

func exportSanitizer() *bluemonday.Policy {
	exportPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("div", "span", "label", "input", "form", "fieldset", "legend")
		policy.AllowTables()
		policy.AllowDataAttributes()

		policy.AllowAttrs("class", "id").Globally()
		policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		policy.AllowAttrs("draggable").OnElements("div")
		policy.AllowAttrs(
			"type", "name", "value", "checked", "placeholder", "readonly", "disabled",
		).OnElements("input")
		policy.AllowAttrs("for").OnElements("label")

		exportPolicy = policy
	})
	return exportPolicy
}
