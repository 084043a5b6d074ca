package pipeline

import (
	"context"
)

// Pass represents a single rewrite rule in the simplification pipeline.
// Each pass reworks the grouped properties in place or replaces whole
// groups via Groups.Set.
//
// Passes should be:
// - Stateless: all working state lives in the Groups
// - Loud: invariant violations return an error, never a silent default
type Pass interface {
	// Name returns the unique identifier for this pass.
	Name() string

	// Apply performs the rewrite and reports what it did.
	Apply(ctx context.Context, groups *Groups) (PassResult, error)
}

// PassResult describes what a single pass did to the grouped properties.
type PassResult struct {
	// Rewrites is the number of properties renamed or replaced
	Rewrites int

	// Dropped lists flattened keys discarded without a replacement
	Dropped []string
}

// PassFunc is a function type that implements Pass.
// Useful for simple passes that don't need a full struct.
type PassFunc struct {
	name string
	fn   func(ctx context.Context, groups *Groups) (PassResult, error)
}

// NewPassFunc creates a Pass from a function.
func NewPassFunc(name string, fn func(ctx context.Context, groups *Groups) (PassResult, error)) Pass {
	return &PassFunc{name: name, fn: fn}
}

// Name returns the pass name.
func (p *PassFunc) Name() string {
	return p.name
}

// Apply calls the wrapped function.
func (p *PassFunc) Apply(ctx context.Context, groups *Groups) (PassResult, error) {
	return p.fn(ctx, groups)
}
