// Package pipeline provides the simplification pipeline infrastructure: the
// transformer context, root grouping, and the pass orchestrator.
package pipeline

import (
	"sync"

	fs "github.com/gofhir/simplifier"
)

// Context holds the flattened properties of a single resource while it is
// being simplified. It is constructed and populated entirely by the external
// flattening stage; the simplifier mutates Properties destructively and
// returns the same context.
//
// A Context must not be shared across goroutines. Context instances are
// pooled for efficiency; use AcquireContext() and Release() to manage them.
type Context struct {
	// Properties maps each flattened key to its property. The mapping is
	// rebuilt from the grouped working set at the end of every run.
	Properties map[string]*fs.Property

	// ResourceType is the FHIR resource type the properties came from
	// (e.g. "Patient", "Observation")
	ResourceType string

	// FHIRVersion records which schema the flattening stage used
	FHIRVersion fs.FHIRVersion

	// metadata carries integrator-defined values through the run
	metadata map[string]any
}

// contextPool holds reusable Context instances.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{
			Properties: make(map[string]*fs.Property, 64),
			metadata:   make(map[string]any, 4),
		}
	},
}

// AcquireContext gets a Context from the pool.
// Call Release() when done to return it to the pool.
func AcquireContext() *Context {
	ctx := contextPool.Get().(*Context)
	ctx.Reset()
	return ctx
}

// Release returns the Context to the pool.
// After calling Release, the Context should not be used.
func (c *Context) Release() {
	if c == nil {
		return
	}

	// Don't return contexts with oversized maps
	if len(c.Properties) <= 4096 {
		contextPool.Put(c)
	}
}

// Reset clears the context for reuse.
func (c *Context) Reset() {
	c.ResourceType = ""
	c.FHIRVersion = ""

	// Clear maps without reallocating
	for k := range c.Properties {
		delete(c.Properties, k)
	}
	for k := range c.metadata {
		delete(c.metadata, k)
	}
}

// NewContext creates a new Context (non-pooled).
// Prefer AcquireContext() for better performance.
func NewContext() *Context {
	return &Context{
		Properties: make(map[string]*fs.Property, 64),
		metadata:   make(map[string]any, 4),
	}
}

// Add inserts a property under its flattened key.
func (c *Context) Add(p *fs.Property) {
	c.Properties[p.FlattenedKey] = p
}

// Len returns the number of properties in the context.
func (c *Context) Len() int {
	return len(c.Properties)
}

// Get returns the property stored under a flattened key.
func (c *Context) Get(key string) (*fs.Property, bool) {
	p, ok := c.Properties[key]
	return p, ok
}

// SetMetadata stores an integrator-defined value on the context.
func (c *Context) SetMetadata(key string, value any) {
	c.metadata[key] = value
}

// GetMetadata retrieves an integrator-defined value from the context.
func (c *Context) GetMetadata(key string) (any, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// Clone creates a deep copy of the context. Each property is cloned, so
// simplifying the clone leaves the original untouched.
func (c *Context) Clone() *Context {
	clone := AcquireContext()
	clone.ResourceType = c.ResourceType
	clone.FHIRVersion = c.FHIRVersion
	for key, p := range c.Properties {
		clone.Properties[key] = p.WithKey(p.FlattenedKey)
	}
	for k, v := range c.metadata {
		clone.metadata[k] = v
	}
	return clone
}
