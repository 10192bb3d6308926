package binding

import (
	"maps"
	"sync"
)

type instanceKey struct {
	key      string
	instance string
}

// Context holds the current value of every binding key. Reads consult the
// instance scope first (when an instance id is supplied) and fall back to the
// global scope. Writes with an instance id never touch the global scope.
type Context struct {
	mu         sync.RWMutex
	properties []Property
	global     map[string]string
	instance   map[instanceKey]string
}

// NewContext builds a context whose global scope holds one empty entry per
// declared property. A nil slice uses DefaultProperties.
func NewContext(properties []Property) *Context {
	if properties == nil {
		properties = DefaultProperties()
	}
	ctx := &Context{
		properties: append([]Property(nil), properties...),
		global:     make(map[string]string, len(properties)),
		instance:   make(map[instanceKey]string),
	}
	for _, prop := range properties {
		if prop.Key == "" {
			continue
		}
		ctx.global[prop.Key] = ""
	}
	return ctx
}

// Properties returns the declared bindable properties in declaration order.
func (c *Context) Properties() []Property {
	if c == nil {
		return nil
	}
	return append([]Property(nil), c.properties...)
}

// Value resolves expr. Malformed expressions resolve to "". With a non-empty
// instanceID an instance-scoped entry wins when present.
func (c *Context) Value(expr, instanceID string) string {
	if c == nil {
		return ""
	}
	key, ok := ParseKey(expr)
	if !ok {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if instanceID != "" {
		if value, ok := c.instance[instanceKey{key: key, instance: instanceID}]; ok {
			return value
		}
	}
	return c.global[key]
}

// SetValue stores value for expr. Malformed expressions are ignored. With a
// non-empty instanceID only the instance scope is written.
func (c *Context) SetValue(expr, value, instanceID string) {
	if c == nil {
		return
	}
	key, ok := ParseKey(expr)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if instanceID != "" {
		c.instance[instanceKey{key: key, instance: instanceID}] = value
		return
	}
	c.global[key] = value
}

// ClearInstance drops every instance-scoped entry recorded for instanceID,
// typically once the widget leaves the editing focus.
func (c *Context) ClearInstance(instanceID string) {
	if c == nil || instanceID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.instance {
		if k.instance == instanceID {
			delete(c.instance, k)
		}
	}
}

// Values returns a copy of the global scope.
func (c *Context) Values() map[string]string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.global)
}
