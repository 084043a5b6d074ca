package pass

import (
	"context"
	"strings"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

// ListCollapsePass removes the array index "0" from a key segment when the
// array it denotes has exactly one element, i.e. no key in the same group
// contains "<name>.1" for that array.
//
// Each round computes its rename set from an immutable snapshot of the
// group's keys and applies it as a batch, then the round repeats until
// nothing changes. Collapsing an outer array can expose a nested single-item
// array, so the fixed point is what makes the pass depth-independent; the
// maxDepth bound is a safety limit against pathological inputs.
type ListCollapsePass struct {
	maxDepth int
}

// NewListCollapsePass creates a new single-item-list collapse pass.
// maxDepth values <= 0 fall back to fs.DefaultMaxCollapseDepth.
func NewListCollapsePass(maxDepth int) *ListCollapsePass {
	if maxDepth <= 0 {
		maxDepth = fs.DefaultMaxCollapseDepth
	}
	return &ListCollapsePass{maxDepth: maxDepth}
}

// Name returns the pass name.
func (p *ListCollapsePass) Name() string {
	return "single-item-lists"
}

// Apply collapses single-item array indices in every group.
func (p *ListCollapsePass) Apply(_ context.Context, groups *pipeline.Groups) (pipeline.PassResult, error) {
	var result pipeline.PassResult

	for _, root := range groups.Roots() {
		props := groups.Get(root)
		for depth := 0; depth < p.maxDepth; depth++ {
			changed := collapseOnce(props)
			if changed == 0 {
				break
			}
			result.Rewrites += changed
		}
	}

	return result, nil
}

// collapseOnce performs one collapse round over a group: it discovers every
// single-item array visible in the current keys, then rewrites the first
// occurrence of "<name>.0" to "<name>" across all keys in the group.
// It returns the number of keys that changed.
func collapseOnce(props []*fs.Property) int {
	keys := make([]string, len(props))
	for i, p := range props {
		keys[i] = p.FlattenedKey
	}

	// Discovery on the immutable snapshot: the segment before the first
	// literal "0" names the array; a sibling ".1" anywhere in the group
	// means the array has more than one element.
	var names []string
	seen := make(map[string]bool, 4)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		zeroAt := -1
		for i, part := range parts {
			if part == "0" {
				zeroAt = i
				break
			}
		}
		if zeroAt <= 0 {
			continue
		}
		name := parts[zeroAt-1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if containsAny(keys, name+".1") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return 0
	}

	// Batch apply: every key in the group loses its first "<name>.0".
	changed := 0
	for _, p := range props {
		key := p.FlattenedKey
		for _, name := range names {
			key = strings.Replace(key, name+".0", name, 1)
		}
		if key != p.FlattenedKey {
			p.FlattenedKey = key
			changed++
		}
	}
	return changed
}

// containsAny reports whether any key contains substr.
func containsAny(keys []string, substr string) bool {
	for _, key := range keys {
		if strings.Contains(key, substr) {
			return true
		}
	}
	return false
}
