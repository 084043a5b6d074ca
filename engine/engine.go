// Package engine assembles the standard simplification pipeline.
package engine

import (
	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pass"
	"github.com/gofhir/simplifier/pipeline"
)

// New creates a Simplifier with the standard passes wired in fixed order:
// extensions, then single-item lists, then codings. Root grouping happens
// inside Simplify before the first pass runs.
//
// The order is part of the contract: extension rewriting must precede list
// collapsing so indices inside extension arrays are not mistaken for
// top-level arrays, and coding rewriting runs last so it observes keys
// already shortened by the prior passes.
func New(opts ...fs.Option) *pipeline.Simplifier {
	s := pipeline.NewSimplifier(opts...)
	o := s.Options()

	s.Use(pass.NewExtensionPass(o.Logger))
	s.Use(pass.NewListCollapsePass(o.MaxCollapseDepth))
	s.Use(pass.NewCodingPass(o.Logger))

	return s
}
