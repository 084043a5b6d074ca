package worker

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/engine"
	"github.com/gofhir/simplifier/pipeline"
)

func patientContext(given string) *pipeline.Context {
	tctx := pipeline.NewContext()
	tctx.ResourceType = "Patient"
	tctx.Add(&fs.Property{
		FlattenedKey: "name.0.given.0",
		Value:        given,
		LeafElements: []fs.Element{{ID: "Patient.name"}},
	})
	tctx.Add(&fs.Property{
		FlattenedKey: "gender",
		Value:        "female",
		LeafElements: []fs.Element{{ID: "Patient.gender"}},
	})
	return tctx
}

func TestPool_SimplifiesJobs(t *testing.T) {
	const n = 8

	pool := NewPool(engine.New(), 4)

	contexts := make([]*pipeline.Context, n)
	for i := 0; i < n; i++ {
		contexts[i] = patientContext("patient-" + strconv.Itoa(i))
		ok := pool.Submit(Job{ID: strconv.Itoa(i), Context: contexts[i]})
		require.True(t, ok)
	}

	br := pool.CloseAndWait()

	assert.Equal(t, n, br.TotalJobs)
	assert.Equal(t, n, br.CompletedJobs)
	assert.Equal(t, 0, br.FailedJobs)
	require.Len(t, br.Results, n)
	assert.False(t, br.HasErrors())

	// Every context was simplified in place
	for i, tctx := range contexts {
		p, ok := tctx.Get("name.given")
		require.True(t, ok, "context %d missing name.given", i)
		assert.Equal(t, "patient-"+strconv.Itoa(i), p.Value)
	}
}

func TestPool_NilSimplifier(t *testing.T) {
	pool := NewPool(nil, 1)

	ok := pool.Submit(Job{ID: "a", Context: patientContext("x")})
	require.True(t, ok)

	br := pool.CloseAndWait()

	require.Len(t, br.Results, 1)
	assert.ErrorIs(t, br.Results[0].Error, ErrNoSimplifier)
	assert.Equal(t, 1, br.FailedJobs)
	assert.True(t, br.HasErrors())
}

func TestPool_EmptyContextFails(t *testing.T) {
	pool := NewPool(engine.New(), 1)

	require.True(t, pool.Submit(Job{ID: "empty", Context: pipeline.NewContext()}))

	br := pool.CloseAndWait()

	require.Len(t, br.Results, 1)
	assert.ErrorIs(t, br.Results[0].Error, fs.ErrEmptyContext)
	assert.Equal(t, 1, br.FailedJobs)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(engine.New(), 1)
	pool.Close()

	assert.False(t, pool.Submit(Job{ID: "late", Context: patientContext("x")}))
	assert.False(t, pool.SubmitAsync(Job{ID: "late", Context: patientContext("x")}))
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	pool := NewPool(engine.New(), 1)
	pool.Close()
	pool.Close()

	br := pool.CloseAndWait()
	assert.Empty(t, br.Results)
}

func TestPool_Stats(t *testing.T) {
	pool := NewPool(engine.New(), 3)

	require.True(t, pool.Submit(Job{ID: "a", Context: patientContext("x")}))
	require.True(t, pool.Submit(Job{ID: "b", Context: patientContext("y")}))

	br := pool.CloseAndWait()
	require.Equal(t, 2, br.CompletedJobs)

	stats := pool.Stats()
	assert.Equal(t, 3, stats.Workers)
	assert.Equal(t, uint64(2), stats.JobsSubmitted)
	assert.Equal(t, uint64(2), stats.JobsCompleted)
}

func TestBatchSimplifier_Sequential(t *testing.T) {
	s := engine.New()
	bs := NewBatchSimplifier(s.Simplify, 4)

	contexts := []*pipeline.Context{
		patientContext("a"),
		patientContext("b"),
	}

	br := bs.SimplifyBatch(context.Background(), contexts)

	assert.Equal(t, 2, br.TotalJobs)
	assert.Equal(t, 2, br.CompletedJobs)
	assert.Equal(t, 0, br.FailedJobs)
	require.Len(t, br.Results, 2)
	for i, r := range br.Results {
		assert.Equal(t, strconv.Itoa(i), r.ID)
		require.NotNil(t, r.Report)
		assert.Equal(t, 2, r.Report.PropertiesOut)
	}
}

func TestBatchSimplifier_Parallel(t *testing.T) {
	const n = 10

	s := engine.New()
	bs := NewBatchSimplifier(s.Simplify, 4)

	contexts := make([]*pipeline.Context, n)
	for i := 0; i < n; i++ {
		contexts[i] = patientContext("patient-" + strconv.Itoa(i))
	}

	br := bs.SimplifyBatch(context.Background(), contexts)

	assert.Equal(t, n, br.TotalJobs)
	assert.Equal(t, n, br.CompletedJobs)
	assert.Equal(t, 0, br.FailedJobs)
	require.Len(t, br.Results, n)

	// Results come back in input order regardless of worker scheduling
	for i, r := range br.Results {
		require.NotNil(t, r, "missing result %d", i)
		assert.Equal(t, strconv.Itoa(i), r.ID)
		require.NoError(t, r.Error)
	}
	for i, tctx := range contexts {
		p, ok := tctx.Get("name.given")
		require.True(t, ok)
		assert.Equal(t, "patient-"+strconv.Itoa(i), p.Value)
	}
}

func TestBatchSimplifier_CountsFailures(t *testing.T) {
	s := engine.New()
	bs := NewBatchSimplifier(s.Simplify, 2)

	contexts := []*pipeline.Context{
		patientContext("a"),
		pipeline.NewContext(), // empty context fails
		patientContext("c"),
	}

	br := bs.SimplifyBatch(context.Background(), contexts)

	assert.Equal(t, 3, br.TotalJobs)
	assert.Equal(t, 3, br.CompletedJobs)
	assert.Equal(t, 1, br.FailedJobs)
	assert.ErrorIs(t, br.Results[1].Error, fs.ErrEmptyContext)
	assert.True(t, br.HasErrors())
}

func TestBatchSimplifier_Empty(t *testing.T) {
	bs := NewBatchSimplifier(engine.New().Simplify, 2)
	br := bs.SimplifyBatch(context.Background(), nil)

	assert.Equal(t, 0, br.TotalJobs)
	assert.Empty(t, br.Results)
	assert.False(t, br.HasErrors())
}

func TestSimplifyBatchSimple(t *testing.T) {
	contexts := []*pipeline.Context{
		patientContext("a"),
		patientContext("b"),
		patientContext("c"),
	}

	br := SimplifyBatchSimple(context.Background(), engine.New().Simplify, contexts)

	assert.Equal(t, 3, br.TotalJobs)
	assert.Equal(t, 0, br.FailedJobs)
	assert.Equal(t, 0, br.Collisions())
	assert.Equal(t, 0, br.Dropped())
}
