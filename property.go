package fhirsimplifier

// Element describes one schema element along a flattened property's path.
// Elements are produced by the upstream flattening stage; the simplifier
// treats them as read-only.
type Element struct {
	// ID is the schema element identifier (e.g. "Patient.extension")
	ID string `json:"id"`

	// Path is the dotted path of the element within its StructureDefinition
	Path string `json:"path,omitempty"`

	// Type is the element's declared type code, if known
	Type string `json:"type,omitempty"`
}

// Property represents one scalar value extracted from a nested resource.
// The FlattenedKey is rewritten in place by the simplification passes;
// Value and LeafElements are never mutated.
type Property struct {
	// FlattenedKey is the dot-separated path standing in for the value's
	// position in the nested resource (e.g. "name.given.0")
	FlattenedKey string `json:"flattenedKey"`

	// Value is the extracted leaf value (string, number or boolean)
	Value any `json:"value"`

	// LeafElements holds one schema element per path segment.
	// LeafElements[0] identifies the root schema element this property
	// descends from.
	LeafElements []Element `json:"leafElements,omitempty"`
}

// RootID returns the identifier of the root schema element this property
// descends from. It returns false if the upstream flattening stage supplied
// no schema metadata.
func (p *Property) RootID() (string, bool) {
	if len(p.LeafElements) == 0 {
		return "", false
	}
	return p.LeafElements[0].ID, true
}

// WithKey returns an independently owned copy of p under a new flattened key.
// The schema metadata is copied so the clone does not alias the original.
func (p *Property) WithKey(key string) *Property {
	clone := &Property{
		FlattenedKey: key,
		Value:        p.Value,
	}
	if len(p.LeafElements) > 0 {
		clone.LeafElements = make([]Element, len(p.LeafElements))
		copy(clone.LeafElements, p.LeafElements)
	}
	return clone
}

// StringValue returns the value as a string if it is one.
func (p *Property) StringValue() (string, bool) {
	s, ok := p.Value.(string)
	return s, ok
}
