package pass

import (
	"testing"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

func prop(key string, value any, root string) *fs.Property {
	return &fs.Property{
		FlattenedKey: key,
		Value:        value,
		LeafElements: []fs.Element{{ID: root}},
	}
}

// group builds a Groups with a single root populated from key/value pairs.
func group(root string, pairs ...any) *pipeline.Groups {
	g := pipeline.NewGroups()
	addGroup(g, root, pairs...)
	return g
}

func addGroup(g *pipeline.Groups, root string, pairs ...any) {
	for i := 0; i < len(pairs); i += 2 {
		g.Add(root, prop(pairs[i].(string), pairs[i+1], root))
	}
}

// keys returns the flattened keys of a root's group.
func keys(g *pipeline.Groups, root string) []string {
	props := g.Get(root)
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.FlattenedKey
	}
	return out
}

func TestLastSegment(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://hl7.org/fhir/us/core/StructureDefinition/us-core-race", "us-core-race"},
		{"http://x/sys1", "sys1"},
		{"plain", "plain"},
		{"trailing/", ""},
	}

	for _, tt := range tests {
		if got := lastSegment(tt.url); got != tt.want {
			t.Errorf("lastSegment(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}
