package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	fs "github.com/gofhir/simplifier"
)

// Simplifier orchestrates the simplification passes. Passes run sequentially
// in registration order: the rewrite rules interact, so the order is part of
// the contract (see engine.New for the standard wiring).
//
// A Simplifier is safe for concurrent use as long as every call gets its own
// Context; the Context itself is mutated without locking.
type Simplifier struct {
	passes  []Pass
	options *fs.Options
	metrics *fs.Metrics
	logger  *zap.Logger
}

// NewSimplifier creates a Simplifier with no passes registered.
// Use engine.New for one wired with the standard passes.
func NewSimplifier(opts ...fs.Option) *Simplifier {
	o := fs.DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Simplifier{
		passes:  make([]Pass, 0, 4),
		options: o,
		metrics: fs.NewMetrics(),
		logger:  o.Logger,
	}
}

// Use appends a pass to the pipeline.
func (s *Simplifier) Use(p Pass) {
	s.passes = append(s.passes, p)
}

// Options returns the resolved configuration.
func (s *Simplifier) Options() *fs.Options {
	return s.options
}

// Metrics returns the metrics collector.
func (s *Simplifier) Metrics() *fs.Metrics {
	return s.metrics
}

// SetMetrics sets the metrics collector, e.g. to share one across workers.
func (s *Simplifier) SetMetrics(m *fs.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// PassCount returns the number of registered passes.
func (s *Simplifier) PassCount() int {
	return len(s.passes)
}

// PassNames returns the registered pass names in execution order.
func (s *Simplifier) PassNames() []string {
	names := make([]string, len(s.passes))
	for i, p := range s.passes {
		names[i] = p.Name()
	}
	return names
}

// Simplify runs every registered pass over the context's properties and
// flattens the grouped result back into the same context. The context is
// mutated in place; the returned report summarizes what the passes did.
//
// An empty context fails with fs.ErrEmptyContext before any pass runs.
func (s *Simplifier) Simplify(ctx context.Context, tctx *Context) (*fs.Report, error) {
	start := time.Now()

	if tctx == nil || len(tctx.Properties) == 0 {
		return nil, fs.ErrEmptyContext
	}

	report := fs.NewReport(len(tctx.Properties))

	groups, err := GroupByRoot(tctx)
	if err != nil {
		return nil, fmt.Errorf("grouping by root element: %w", err)
	}

	for _, p := range s.passes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		passStart := time.Now()
		result, err := p.Apply(ctx, groups)
		if err != nil {
			return nil, fmt.Errorf("pass %s: %w", p.Name(), err)
		}
		passDuration := time.Since(passStart)

		report.RecordRewrites(p.Name(), result.Rewrites)
		report.RecordDropped(result.Dropped...)

		if s.options.CollectMetrics {
			s.metrics.RecordPass(p.Name(), passDuration, result.Rewrites)
		}
		s.logger.Debug("pass complete",
			zap.String("pass", p.Name()),
			zap.Int("rewrites", result.Rewrites),
			zap.Int("dropped", len(result.Dropped)),
			zap.Duration("duration", passDuration))
	}

	flattened, err := groups.Flatten(s.options.CollisionPolicy, s.logger, report)
	if err != nil {
		return nil, err
	}
	tctx.Properties = flattened

	report.PropertiesOut = len(flattened)
	report.Duration = time.Since(start)

	if s.options.CollectMetrics {
		s.metrics.RecordRun(report.Duration, report.PropertiesIn, report.PropertiesOut)
		s.metrics.RecordDropped(len(report.Dropped))
		s.metrics.RecordCollisions(len(report.Collisions))
	}

	return report, nil
}
