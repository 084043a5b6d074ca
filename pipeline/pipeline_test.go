package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fs "github.com/gofhir/simplifier"
)

func TestSimplifier_EmptyContext(t *testing.T) {
	s := NewSimplifier()

	_, err := s.Simplify(context.Background(), NewContext())
	require.ErrorIs(t, err, fs.ErrEmptyContext)

	_, err = s.Simplify(context.Background(), nil)
	require.ErrorIs(t, err, fs.ErrEmptyContext)
}

func TestSimplifier_PassOrder(t *testing.T) {
	s := NewSimplifier()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		s.Use(NewPassFunc(name, func(_ context.Context, _ *Groups) (PassResult, error) {
			order = append(order, name)
			return PassResult{}, nil
		}))
	}

	ctx := NewContext()
	ctx.Add(prop("gender", "female", "Patient.gender"))

	_, err := s.Simplify(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, []string{"first", "second", "third"}, s.PassNames())
	assert.Equal(t, 3, s.PassCount())
}

func TestSimplifier_PassError(t *testing.T) {
	s := NewSimplifier()
	boom := errors.New("boom")
	s.Use(NewPassFunc("failing", func(_ context.Context, _ *Groups) (PassResult, error) {
		return PassResult{}, boom
	}))

	ctx := NewContext()
	ctx.Add(prop("gender", "female", "Patient.gender"))

	_, err := s.Simplify(context.Background(), ctx)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pass failing")
}

func TestSimplifier_MetadataErrorPropagates(t *testing.T) {
	s := NewSimplifier()

	ctx := NewContext()
	ctx.Add(&fs.Property{FlattenedKey: "orphan", Value: "x"})

	_, err := s.Simplify(context.Background(), ctx)
	var me *fs.MetadataError
	require.ErrorAs(t, err, &me)
}

func TestSimplifier_Cancellation(t *testing.T) {
	s := NewSimplifier()
	s.Use(NewPassFunc("never", func(_ context.Context, _ *Groups) (PassResult, error) {
		t.Fatal("pass ran despite cancelled context")
		return PassResult{}, nil
	}))

	tctx := NewContext()
	tctx.Add(prop("gender", "female", "Patient.gender"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Simplify(ctx, tctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimplifier_ReportAndMetrics(t *testing.T) {
	s := NewSimplifier()
	s.Use(NewPassFunc("renamer", func(_ context.Context, g *Groups) (PassResult, error) {
		p := g.Get("Patient.gender")[0]
		p.FlattenedKey = "sex"
		return PassResult{Rewrites: 1}, nil
	}))

	ctx := NewContext()
	ctx.Add(prop("gender", "female", "Patient.gender"))

	report, err := s.Simplify(context.Background(), ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.PropertiesIn)
	assert.Equal(t, 1, report.PropertiesOut)
	assert.Equal(t, 1, report.Rewrites["renamer"])

	// The context now holds the rewritten key
	_, ok := ctx.Get("sex")
	assert.True(t, ok)
	_, ok = ctx.Get("gender")
	assert.False(t, ok)

	stats, ok := s.Metrics().PassStats("renamer")
	require.True(t, ok)
	assert.Equal(t, uint64(1), stats.Invocations)
	assert.Equal(t, uint64(1), s.Metrics().RunsTotal())
}

func TestSimplifier_MetricsDisabled(t *testing.T) {
	s := NewSimplifier(fs.WithMetrics(false))
	s.Use(NewPassFunc("noop", func(_ context.Context, _ *Groups) (PassResult, error) {
		return PassResult{}, nil
	}))

	ctx := NewContext()
	ctx.Add(prop("gender", "female", "Patient.gender"))

	_, err := s.Simplify(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), s.Metrics().RunsTotal())
}

func TestSimplifier_SharedMetrics(t *testing.T) {
	shared := fs.NewMetrics()

	s1 := NewSimplifier()
	s1.SetMetrics(shared)
	s2 := NewSimplifier()
	s2.SetMetrics(shared)

	for _, s := range []*Simplifier{s1, s2} {
		ctx := NewContext()
		ctx.Add(prop("gender", "female", "Patient.gender"))
		_, err := s.Simplify(context.Background(), ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(2), shared.RunsTotal())
}
