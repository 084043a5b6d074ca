// Package pass implements the standard simplification passes.
//
// Each pass is one rewrite rule over the grouped properties:
//
//   - ExtensionPass collapses numbered extension/sub-extension entries into
//     directly named key/value properties
//   - ListCollapsePass removes the array index "0" from segments whose array
//     has no element at index 1
//   - CodingPass collapses coding system/code/display triples into compact
//     <base>.<systemTag> keys
//
// The passes are heuristics inherited from the original flattening pipeline:
// key matching is substring based, and a single-element array cannot be told
// apart from sparse data where only index 0 happens to be present. Callers
// must accept that an array that legitimately always has one element is
// treated as a scalar field from then on.
package pass
