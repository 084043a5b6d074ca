package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

// BatchSimplifier provides a simple interface for batch simplification.
type BatchSimplifier struct {
	simplify BatchFunc
	workers  int
}

// BatchFunc is the function signature for simplifying a single context.
type BatchFunc func(ctx context.Context, tctx *pipeline.Context) (*fs.Report, error)

// NewBatchSimplifier creates a new batch simplifier.
func NewBatchSimplifier(simplifyFunc BatchFunc, workers int) *BatchSimplifier {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchSimplifier{
		simplify: simplifyFunc,
		workers:  workers,
	}
}

// SimplifyBatch simplifies multiple independent contexts in parallel.
// Each context is mutated in place; results are returned in input order.
func (bs *BatchSimplifier) SimplifyBatch(ctx context.Context, contexts []*pipeline.Context) *BatchResult {
	if len(contexts) == 0 {
		return &BatchResult{
			Results: make([]*JobResult, 0),
		}
	}

	// For small batches, don't use parallelism
	if len(contexts) <= 2 {
		return bs.simplifySequential(ctx, contexts)
	}

	return bs.simplifyParallel(ctx, contexts)
}

func (bs *BatchSimplifier) simplifySequential(ctx context.Context, contexts []*pipeline.Context) *BatchResult {
	results := make([]*JobResult, 0, len(contexts))
	failed := 0

	for i, tctx := range contexts {
		select {
		case <-ctx.Done():
			return &BatchResult{
				Results:       results,
				TotalJobs:     len(contexts),
				CompletedJobs: len(results),
				FailedJobs:    failed,
			}
		default:
		}

		report, err := bs.simplify(ctx, tctx)
		if err != nil {
			failed++
		}
		results = append(results, &JobResult{
			ID:     strconv.Itoa(i),
			Report: report,
			Error:  err,
		})
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(contexts),
		CompletedJobs: len(results),
		FailedJobs:    failed,
	}
}

func (bs *BatchSimplifier) simplifyParallel(ctx context.Context, contexts []*pipeline.Context) *BatchResult {
	numWorkers := bs.workers
	if numWorkers > len(contexts) {
		numWorkers = len(contexts)
	}

	jobs := make(chan indexedContext, len(contexts))
	resultsChan := make(chan *indexedResult, len(contexts))

	// Start workers
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				report, err := bs.simplify(ctx, job.tctx)
				resultsChan <- &indexedResult{
					index:  job.index,
					report: report,
					err:    err,
				}
			}
		}()
	}

	// Submit jobs
	go func() {
		defer close(jobs)
		for i, tctx := range contexts {
			select {
			case <-ctx.Done():
				return
			case jobs <- indexedContext{index: i, tctx: tctx}:
			}
		}
	}()

	// Wait for workers and close results channel
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results in order
	results := make([]*JobResult, len(contexts))
	completed := 0
	failed := 0

	for ir := range resultsChan {
		results[ir.index] = &JobResult{
			ID:     strconv.Itoa(ir.index),
			Report: ir.report,
			Error:  ir.err,
		}
		completed++
		if ir.err != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(contexts),
		CompletedJobs: completed,
		FailedJobs:    failed,
	}
}

type indexedContext struct {
	index int
	tctx  *pipeline.Context
}

type indexedResult struct {
	index  int
	report *fs.Report
	err    error
}

// SimplifyBatchSimple is a convenience function for batch simplification.
func SimplifyBatchSimple(ctx context.Context, simplifyFunc BatchFunc, contexts []*pipeline.Context) *BatchResult {
	bs := NewBatchSimplifier(simplifyFunc, runtime.NumCPU())
	return bs.SimplifyBatch(ctx, contexts)
}
