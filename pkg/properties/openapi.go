package properties

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formlayout/pkg/binding"
)

// maxDepth bounds object flattening so self-referencing schemas terminate.
const maxDepth = 8

// FromOpenAPI declares one property per scalar leaf of the named component
// schema. Nested objects flatten into dotted keys ("address.city"); arrays are
// skipped. Keys are sorted; labels come from the schema title or the
// humanized key.
func FromOpenAPI(ctx context.Context, data []byte, schemaName string) ([]binding.Property, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("properties: load openapi: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, fmt.Errorf("properties: openapi document declares no component schemas")
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("properties: schema %q not found", schemaName)
	}

	var out []binding.Property
	flatten(ref.Value, "", 0, &out)
	if len(out) == 0 {
		return nil, fmt.Errorf("properties: schema %q has no scalar properties", schemaName)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SchemaNames lists the component schemas of an OpenAPI document.
func SchemaNames(ctx context.Context, data []byte) ([]string, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("properties: load openapi: %w", err)
	}
	if doc.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func flatten(schema *openapi3.Schema, prefix string, depth int, out *[]binding.Property) {
	if schema == nil || depth > maxDepth {
		return
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		value := ref.Value
		switch schemaType(value) {
		case openapi3.TypeObject:
			flatten(value, key, depth+1, out)
		case openapi3.TypeArray:
			continue
		default:
			label := strings.TrimSpace(value.Title)
			if label == "" {
				label = Humanize(key)
			}
			*out = append(*out, binding.Property{Key: key, Label: label})
		}
	}
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		if len(schema.Properties) > 0 {
			return openapi3.TypeObject
		}
		return ""
	}
	values := schema.Type.Slice()
	for _, v := range values {
		if v != openapi3.TypeNull {
			return v
		}
	}
	return ""
}
