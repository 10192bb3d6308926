// Package binding resolves `{{ key }}` expressions against two value scopes:
// a global scope used at export time and as the read fallback, and an
// instance scope keyed by (key, widget instance) so widgets sharing a key can
// preview different values while they are being edited.
package binding

import (
	"regexp"
	"strings"
)

var expressionPattern = regexp.MustCompile(`^\{\{\s*(\S+)\s*\}\}$`)

// ParseKey extracts the identifier from an expression of the exact form
// "{{ key }}". Anything else yields false.
func ParseKey(expr string) (string, bool) {
	if expr == "" {
		return "", false
	}
	match := expressionPattern.FindStringSubmatch(expr)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Expression formats key as a binding expression. A blank key yields "".
func Expression(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	return "{{ " + trimmed + " }}"
}

// Property declares a bindable key and the label shown by property pickers.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// DefaultProperties returns the built-in property declarations.
func DefaultProperties() []Property {
	return []Property{
		{Key: "listValue1", Label: "List value 1"},
		{Key: "listValue2", Label: "List value 2"},
		{Key: "listValue3", Label: "List value 3"},
		{Key: "listValue4", Label: "List value 4"},
		{Key: "listValue5", Label: "List value 5"},
	}
}
