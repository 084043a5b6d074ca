// Package fhirsimplifier simplifies flattened FHIR properties into a compact,
// semantically meaningful flat map.
//
// An upstream flattening stage walks a nested, schema-typed resource and
// produces a mapping from dotted path ("flattened key", e.g. "name.given.0")
// to a leaf value plus the schema elements that produced it. This package is
// the simplification pass that follows: a fixed sequence of rewrite rules
// that groups properties by their root schema element, rewrites FHIR
// extension arrays into direct name.subname keys, collapses single-item
// array indices out of keys, and rewrites coding triples into compact
// <base>.<systemTag> keys.
//
// # Quick Start
//
//	import (
//	    fs "github.com/gofhir/simplifier"
//	    "github.com/gofhir/simplifier/engine"
//	    "github.com/gofhir/simplifier/pipeline"
//	)
//
//	s := engine.New(fs.WithCollisionPolicy(fs.CollisionWarn))
//
//	tctx := pipeline.AcquireContext()
//	defer tctx.Release()
//	// ... populated by the flattening stage ...
//
//	report, err := s.Simplify(ctx, tctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Summary())
//
// The context is mutated in place; after Simplify returns, tctx.Properties
// holds the rewritten keys.
//
// # Passes
//
// Simplification runs in a fixed order, each pass one rewrite rule:
//
//   - Extensions: numbered extension/sub-extension entries become directly
//     named <extensionName>.<subName> properties
//   - Single-item lists: the index "0" is removed from array segments that
//     have no sibling at index 1
//   - Codings: sibling coding.system/code/display triples collapse into
//     <base>.<systemTag> and <base>.<systemTag>.display
//
// The order matters: extensions are rewritten before list collapsing so
// indices inside extension arrays are not mistaken for top-level arrays, and
// codings run last to observe keys already shortened by the prior passes.
//
// # Concurrency
//
// A Context must not be shared across goroutines; the simplifier mutates it
// in place without locking. Parallelism across independent contexts is
// provided by the worker package.
package fhirsimplifier
