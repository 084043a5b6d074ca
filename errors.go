package fhirsimplifier

import (
	"errors"
	"fmt"
)

// ErrEmptyContext is returned when a context with no flattened properties is
// handed to the simplifier. The precondition fails immediately; no partial
// simplification is attempted.
var ErrEmptyContext = errors.New("transformer context contains no properties")

// MetadataError reports a property that lacks the schema-element descriptors
// needed for root grouping. This signals a defect in the upstream flattening
// stage rather than a recoverable input error.
type MetadataError struct {
	// Key is the flattened key of the offending property
	Key string
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("property %q has no schema element metadata", e.Key)
}

// ExtensionError reports a malformed extension group: an extension or
// sub-extension index that the existence scan found has no resolvable url
// property, or the url value is not a string.
type ExtensionError struct {
	// Index is the extension array index
	Index int

	// SubIndex is the sub-extension index, or -1 when the error concerns
	// the extension entry itself
	SubIndex int

	// Reason describes what was wrong with the entry
	Reason string
}

// Error implements the error interface.
func (e *ExtensionError) Error() string {
	if e.SubIndex < 0 {
		return fmt.Sprintf("malformed extension group: extension.%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("malformed extension group: extension.%d.extension.%d: %s", e.Index, e.SubIndex, e.Reason)
}

// CollisionError reports two groups simplifying to the same final key.
// It is returned only under CollisionReject.
type CollisionError struct {
	// Key is the simplified key both groups produced
	Key string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("simplified key collision on %q", e.Key)
}
