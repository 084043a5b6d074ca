package worker

import (
	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

// Job represents a simplification job to be processed by a worker.
type Job struct {
	// ID is a unique identifier for this job.
	ID string

	// Context holds the flattened properties to simplify. It must not be
	// shared with any other job; the worker mutates it in place.
	Context *pipeline.Context
}

// JobResult represents the result of a simplification job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Report summarizes what the run did. The simplified properties live
	// on the job's context.
	Report *fs.Report

	// Error contains any error that occurred during simplification.
	Error error

	// Duration is the time taken to simplify (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the total time for all runs (in nanoseconds).
	TotalDuration int64
}

// HasErrors returns true if any job failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// Collisions returns the total final-key collisions across all results.
func (br *BatchResult) Collisions() int {
	count := 0
	for _, r := range br.Results {
		if r.Report != nil {
			count += len(r.Report.Collisions)
		}
	}
	return count
}

// Dropped returns the total dropped properties across all results.
func (br *BatchResult) Dropped() int {
	count := 0
	for _, r := range br.Results {
		if r.Report != nil {
			count += len(r.Report.Dropped)
		}
	}
	return count
}
