package pass

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodingPass_Name(t *testing.T) {
	assert.Equal(t, "codings", NewCodingPass(nil).Name())
}

func TestCodingPass_FullTriple(t *testing.T) {
	g := group("Observation.code",
		"obs.coding.system", "http://x/sys1",
		"obs.coding.code", "123",
		"obs.coding.display", "Foo",
	)

	result, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	props := g.Get("Observation.code")
	require.Len(t, props, 2)
	assert.Equal(t, "obs.sys1", props[0].FlattenedKey)
	assert.Equal(t, "123", props[0].Value)
	assert.Equal(t, "obs.sys1.display", props[1].FlattenedKey)
	assert.Equal(t, "Foo", props[1].Value)
	assert.Equal(t, 2, result.Rewrites)
}

func TestCodingPass_SystemAndCodeOnly(t *testing.T) {
	g := group("Observation.code",
		"obs.coding.system", "http://x/sys1",
		"obs.coding.code", "123",
	)

	result, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, []string{"obs.sys1"}, keys(g, "Observation.code"))
	assert.Equal(t, 1, result.Rewrites)
}

func TestCodingPass_SystemAndDisplayOnly(t *testing.T) {
	g := group("Observation.code",
		"obs.coding.system", "http://x/sys1",
		"obs.coding.display", "Foo",
	)

	_, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, []string{"obs.sys1.display"}, keys(g, "Observation.code"))
}

func TestCodingPass_UnrelatedSiblingsKept(t *testing.T) {
	g := group("Observation.code",
		"obs.text", "plain",
		"obs.coding.system", "http://x/sys1",
		"obs.coding.code", "123",
	)

	_, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, []string{"obs.text", "obs.sys1"}, keys(g, "Observation.code"))
}

func TestCodingPass_LoneDisplayDropped(t *testing.T) {
	// A display with no system partner cannot be rewritten; it is removed
	// from the output entirely.
	g := group("Observation.code",
		"obs.coding.display", "Foo",
	)

	result, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.Empty(t, keys(g, "Observation.code"))
	assert.Equal(t, []string{"obs.coding.display"}, result.Dropped)
	assert.Equal(t, 0, result.Rewrites)
}

func TestCodingPass_NoCodingPassThrough(t *testing.T) {
	g := group("Patient.name",
		"name.family", "Smith",
		"name.given", "Alice",
	)
	before := keys(g, "Patient.name")

	result, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	if diff := cmp.Diff(before, keys(g, "Patient.name")); diff != "" {
		t.Errorf("group changed without a coding triple (-before +after):\n%s", diff)
	}
	assert.Equal(t, 0, result.Rewrites)
}

func TestCodingPass_NonStringSystemLeavesGroupUnchanged(t *testing.T) {
	g := group("Observation.code",
		"obs.coding.system", 42.0,
		"obs.coding.code", "123",
	)

	result, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, []string{"obs.coding.system", "obs.coding.code"}, keys(g, "Observation.code"))
	assert.Equal(t, 0, result.Rewrites)
}

func TestCodingPass_FirstTripleWins(t *testing.T) {
	g := group("Observation.code",
		"a.coding.system", "http://x/sys1",
		"a.coding.code", "1",
		"b.coding.system", "http://x/sys2",
		"b.coding.code", "2",
	)

	_, err := NewCodingPass(nil).Apply(context.Background(), g)
	require.NoError(t, err)

	// Only the first system/code pair is rewritten; the second keeps its
	// original keys.
	assert.Equal(t, []string{"b.coding.system", "b.coding.code", "a.sys1"}, keys(g, "Observation.code"))
}
