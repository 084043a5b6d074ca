package pass

import (
	"strings"

	fs "github.com/gofhir/simplifier"
)

// lastSegment returns the final '/'-delimited segment of a url-style value.
// Extension urls and coding systems both name their leaf concept there.
func lastSegment(url string) string {
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		return url[i+1:]
	}
	return url
}

// findKey returns the first property whose flattened key equals key.
func findKey(props []*fs.Property, key string) *fs.Property {
	for _, p := range props {
		if p.FlattenedKey == key {
			return p
		}
	}
	return nil
}

// anyKeyHasPrefix reports whether any property key starts with prefix.
func anyKeyHasPrefix(props []*fs.Property, prefix string) bool {
	for _, p := range props {
		if strings.HasPrefix(p.FlattenedKey, prefix) {
			return true
		}
	}
	return false
}

// anyKeyContains reports whether any property key contains substr.
func anyKeyContains(props []*fs.Property, substr string) bool {
	for _, p := range props {
		if strings.Contains(p.FlattenedKey, substr) {
			return true
		}
	}
	return false
}
