package pipeline

import (
	"sort"

	"go.uber.org/zap"

	fs "github.com/gofhir/simplifier"
)

// Groups is the working representation threaded through the simplification
// passes: properties bucketed by the id of the root schema element they
// descend from, in stable insertion order.
type Groups struct {
	order  []string
	byRoot map[string][]*fs.Property
}

// NewGroups creates an empty grouping.
func NewGroups() *Groups {
	return &Groups{
		byRoot: make(map[string][]*fs.Property, 16),
	}
}

// GroupByRoot partitions a context's properties by root schema element id.
// Go maps are unordered, so the context's keys are visited in sorted order;
// re-grouping an unmutated context therefore always yields the same result.
// A property with no schema metadata is an upstream defect and fails with
// *fs.MetadataError.
func GroupByRoot(tctx *Context) (*Groups, error) {
	keys := make([]string, 0, len(tctx.Properties))
	for key := range tctx.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	g := NewGroups()
	for _, key := range keys {
		p := tctx.Properties[key]
		root, ok := p.RootID()
		if !ok {
			return nil, &fs.MetadataError{Key: key}
		}
		g.Add(root, p)
	}
	return g, nil
}

// Add appends a property to a root's group, creating the group if needed.
func (g *Groups) Add(root string, p *fs.Property) {
	if _, ok := g.byRoot[root]; !ok {
		g.order = append(g.order, root)
	}
	g.byRoot[root] = append(g.byRoot[root], p)
}

// Roots returns the root element ids in insertion order.
func (g *Groups) Roots() []string {
	roots := make([]string, len(g.order))
	copy(roots, g.order)
	return roots
}

// Get returns the live property slice for a root. Passes may mutate the
// properties' keys in place; use Set to replace the slice wholesale.
func (g *Groups) Get(root string) []*fs.Property {
	return g.byRoot[root]
}

// Set replaces a root's group contents, preserving its position.
func (g *Groups) Set(root string, props []*fs.Property) {
	if _, ok := g.byRoot[root]; !ok {
		g.order = append(g.order, root)
	}
	g.byRoot[root] = props
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// PropertyCount returns the total number of properties across all groups.
func (g *Groups) PropertyCount() int {
	n := 0
	for _, props := range g.byRoot {
		n += len(props)
	}
	return n
}

// Keys returns every flattened key across all groups, in group order.
func (g *Groups) Keys() []string {
	keys := make([]string, 0, g.PropertyCount())
	for _, root := range g.order {
		for _, p := range g.byRoot[root] {
			keys = append(keys, p.FlattenedKey)
		}
	}
	return keys
}

// Flatten collapses the grouped working set back into a single mapping keyed
// by each property's (possibly rewritten) flattened key. Collisions across
// groups are resolved by the policy: the later-processed group wins under
// CollisionWarn and CollisionOverwrite (recorded in the report either way),
// while CollisionReject fails with *fs.CollisionError.
func (g *Groups) Flatten(policy fs.CollisionPolicy, logger *zap.Logger, report *fs.Report) (map[string]*fs.Property, error) {
	out := make(map[string]*fs.Property, g.PropertyCount())
	owner := make(map[string]string, g.PropertyCount())

	for _, root := range g.order {
		for _, p := range g.byRoot[root] {
			key := p.FlattenedKey
			if prev, ok := owner[key]; ok {
				switch policy {
				case fs.CollisionReject:
					return nil, &fs.CollisionError{Key: key}
				case fs.CollisionWarn:
					logger.Warn("simplified key collision, keeping later property",
						zap.String("key", key),
						zap.String("kept", root),
						zap.String("discarded", prev))
				}
				if report != nil {
					report.RecordCollision(key, root, prev)
				}
			}
			out[key] = p
			owner[key] = root
		}
	}
	return out, nil
}
