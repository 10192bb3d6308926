package tui

import (
	"fmt"
	"strings"
)

// State collects answers keyed by binding key. Dotted keys ("customer.name")
// nest, so the serialized payload mirrors the property tree.
type State struct {
	values map[string]any
}

// NewState seeds the state with prefilled values.
func NewState(prefill map[string]any) *State {
	return &State{values: cloneTree(prefill)}
}

// Values returns the current value tree (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// GetValue resolves a dotted key.
func (s *State) GetValue(key string) (any, bool) {
	if s == nil || key == "" {
		return nil, false
	}
	node := s.values
	segments := strings.Split(key, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	value, ok := node[segments[len(segments)-1]]
	return value, ok
}

// SetValue stores value under a dotted key, creating the intermediate
// objects. A key cannot nest below a key that already holds a value, nor
// overwrite an object with a value.
func (s *State) SetValue(key string, value any) error {
	if s == nil {
		return fmt.Errorf("tui: state is nil")
	}
	if key == "" {
		return fmt.Errorf("tui: empty key")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	node := s.values
	segments := strings.Split(key, ".")
	for i, segment := range segments[:len(segments)-1] {
		switch existing := node[segment].(type) {
		case nil:
			child := make(map[string]any)
			node[segment] = child
			node = child
		case map[string]any:
			node = existing
		default:
			return fmt.Errorf("tui: %q already holds a value", strings.Join(segments[:i+1], "."))
		}
	}
	leaf := segments[len(segments)-1]
	if _, isObject := node[leaf].(map[string]any); isObject {
		return fmt.Errorf("tui: %q holds nested values", key)
	}
	node[leaf] = value
	return nil
}

func cloneTree(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if child, ok := v.(map[string]any); ok {
			out[k] = cloneTree(child)
			continue
		}
		out[k] = v
	}
	return out
}
