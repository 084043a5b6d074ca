// Package worker provides a worker pool for parallel batch simplification.
//
// A single simplification run is strictly single-threaded and mutates its
// context in place, so parallelism is only safe across independent contexts
// in independent memory. The pool packages that rule: every job carries its
// own context, and no context is ever shared between workers.
//
// Example usage:
//
//	pool := worker.NewPool(simplifier, 4)
//	defer pool.Close()
//
//	for id, tctx := range contexts {
//	    pool.Submit(worker.Job{ID: id, Context: tctx})
//	}
//
//	for result := range pool.Results() {
//	    if result.Error != nil {
//	        // Handle error
//	    }
//	    // Inspect result.Report; the job's context now holds the
//	    // simplified properties.
//	}
package worker
