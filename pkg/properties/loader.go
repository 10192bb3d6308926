// Package properties loads bindable property declarations from YAML/JSON
// files or from OpenAPI component schemas.
package properties

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formlayout/pkg/binding"
)

type documentFile struct {
	Properties []binding.Property `json:"properties" yaml:"properties"`
}

// LoadFS walks fsys and collects the properties declared by every JSON/YAML
// file it contains, in lexical file order. A nil fsys yields no properties.
func LoadFS(fsys fs.FS) ([]binding.Property, error) {
	if fsys == nil {
		return nil, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPropertyFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("properties: walk: %w", err)
	}
	sort.Strings(paths)

	var out []binding.Property
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("properties: read %s: %w", path, err)
		}
		props, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		out, err = Merge(out, props)
		if err != nil {
			return nil, fmt.Errorf("properties: %s: %w", path, err)
		}
	}
	return out, nil
}

// LoadFile reads a single property file.
func LoadFile(path string) ([]binding.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("properties: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes either a bare list of properties or a document with a
// "properties" key. JSON is tried first, then YAML.
func Parse(data []byte, source string) ([]binding.Property, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("properties: file %s is empty", source)
	}

	var props []binding.Property
	if err := json.Unmarshal(data, &props); err != nil {
		var doc documentFile
		if err := json.Unmarshal(data, &doc); err == nil {
			props = doc.Properties
		} else if err := yaml.Unmarshal(data, &props); err != nil {
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("properties: parse %s: invalid JSON or YAML", source)
			}
			props = doc.Properties
		}
	}
	return normalise(props, source)
}

func normalise(props []binding.Property, source string) ([]binding.Property, error) {
	seen := make(map[string]struct{}, len(props))
	out := make([]binding.Property, 0, len(props))
	for i, prop := range props {
		key := strings.TrimSpace(prop.Key)
		if key == "" {
			return nil, fmt.Errorf("properties: %s: entry %d has an empty key", source, i)
		}
		if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("properties: %s: key %q contains whitespace", source, key)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("properties: %s: duplicate key %q", source, key)
		}
		seen[key] = struct{}{}
		label := strings.TrimSpace(prop.Label)
		if label == "" {
			label = Humanize(key)
		}
		out = append(out, binding.Property{Key: key, Label: label})
	}
	return out, nil
}

// Merge appends extra to base, refusing keys base already declares.
func Merge(base, extra []binding.Property) ([]binding.Property, error) {
	seen := make(map[string]struct{}, len(base))
	out := append([]binding.Property(nil), base...)
	for _, prop := range base {
		seen[prop.Key] = struct{}{}
	}
	for _, prop := range extra {
		if _, dup := seen[prop.Key]; dup {
			return nil, fmt.Errorf("duplicate key %q", prop.Key)
		}
		seen[prop.Key] = struct{}{}
		out = append(out, prop)
	}
	return out, nil
}

// Humanize turns "customer.firstName" into "Customer first name".
func Humanize(key string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for _, r := range key {
		switch {
		case r == '.' || r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return key
	}
	label := strings.Join(words, " ")
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func isPropertyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
