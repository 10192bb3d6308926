package vanilla

import (
	"strings"

	"github.com/goliatone/go-formlayout/pkg/export"
	"github.com/goliatone/go-formlayout/pkg/model"
)

func controlID(widgetID string) string {
	trimmed := strings.TrimSpace(widgetID)
	if trimmed == "" {
		return ""
	}
	return "fl-" + trimmed
}

// sanitizeClassList drops the class names reserved for the builder markup
// from a user supplied list.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if export.ReservedClass(token) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// sanitizeClassNames returns a copy of c with every scope sanitized.
func sanitizeClassNames(c *model.ClassNames) *model.ClassNames {
	if c == nil {
		return nil
	}
	out := &model.ClassNames{
		Wrapper: sanitizeClassList(c.Wrapper),
		Inner:   sanitizeClassList(c.Inner),
	}
	if len(c.Elements) > 0 {
		out.Elements = make(map[string]string, len(c.Elements))
		for key, value := range c.Elements {
			out.Elements[key] = sanitizeClassList(value)
		}
	}
	return out
}

func joinClasses(parts ...string) string {
	var tokens []string
	for _, part := range parts {
		tokens = append(tokens, strings.Fields(part)...)
	}
	return strings.Join(tokens, " ")
}
