package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formlayout/pkg/model"
)

// ErrInvalidDocument reports a layout document that decodes but does not
// describe a consistent grid.
var ErrInvalidDocument = errors.New("document: invalid layout")

// Format identifies a layout encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension. Unknown
// extensions fall back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat normalises a user-supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("document: unknown format %q", raw)
	}
}

// Encode serialises t. JSON output is indented.
func Encode(t model.Table, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("document: encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("document: unknown format %q", format)
	}
}

// Decode parses and validates a layout.
func Decode(data []byte, format Format) (model.Table, error) {
	var t model.Table
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return model.Table{}, fmt.Errorf("document: decode yaml: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return model.Table{}, fmt.Errorf("document: decode json: %w", err)
		}
	default:
		return model.Table{}, fmt.Errorf("document: unknown format %q", format)
	}
	if err := Validate(t); err != nil {
		return model.Table{}, err
	}
	return t, nil
}

// Read decodes a layout from r.
func Read(r io.Reader, format Format) (model.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Table{}, fmt.Errorf("document: read: %w", err)
	}
	return Decode(data, format)
}

// Write encodes t to w.
func Write(w io.Writer, t model.Table, format Format) error {
	data, err := Encode(t, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("document: write: %w", err)
	}
	return nil
}

// ReadFile loads a layout, choosing the format from the extension.
func ReadFile(path string) (model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("document: read %s: %w", path, err)
	}
	return Decode(data, FormatFromPath(path))
}

// WriteFile stores a layout, choosing the format from the extension.
func WriteFile(path string, t model.Table) error {
	data, err := Encode(t, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}
