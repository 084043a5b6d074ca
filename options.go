package fhirsimplifier

import (
	"runtime"

	"go.uber.org/zap"
)

// CollisionPolicy decides what happens when two groups simplify to the same
// final flattened key.
type CollisionPolicy int

const (
	// CollisionWarn keeps the later property, logs the discarded one and
	// records the collision in the Report. This is the default.
	CollisionWarn CollisionPolicy = iota

	// CollisionOverwrite keeps the later property without logging. The
	// collision is still recorded in the Report.
	CollisionOverwrite

	// CollisionReject fails the simplification with a *CollisionError.
	CollisionReject
)

// String returns the policy name.
func (p CollisionPolicy) String() string {
	switch p {
	case CollisionWarn:
		return "warn"
	case CollisionOverwrite:
		return "overwrite"
	case CollisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// DefaultMaxCollapseDepth bounds the single-item-list fixed-point loop.
// Each round can expose one more level of nested single-item arrays, so the
// bound is effectively the deepest array nesting that will fully collapse.
const DefaultMaxCollapseDepth = 8

// Option configures the Simplifier.
type Option func(*Options)

// Options holds all configuration for the Simplifier.
type Options struct {
	// CollisionPolicy decides how final-key collisions across groups are
	// handled when the grouped result is flattened back into the context
	CollisionPolicy CollisionPolicy

	// MaxCollapseDepth bounds the single-item-list collapse loop
	MaxCollapseDepth int

	// CollectMetrics enables per-run and per-pass metric recording
	CollectMetrics bool

	// WorkerCount is the default fan-out for batch simplification
	WorkerCount int

	// Logger receives pass diagnostics and data-quality warnings
	Logger *zap.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		CollisionPolicy:  CollisionWarn,
		MaxCollapseDepth: DefaultMaxCollapseDepth,
		CollectMetrics:   true,
		WorkerCount:      runtime.NumCPU(),
		Logger:           zap.NewNop(),
	}
}

// WithCollisionPolicy sets the final-key collision policy.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(o *Options) {
		o.CollisionPolicy = policy
	}
}

// WithMaxCollapseDepth bounds the single-item-list collapse loop.
// Values <= 0 fall back to DefaultMaxCollapseDepth.
func WithMaxCollapseDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxCollapseDepth = depth
		}
	}
}

// WithMetrics enables or disables metric collection.
func WithMetrics(enable bool) Option {
	return func(o *Options) {
		o.CollectMetrics = enable
	}
}

// WithWorkerCount sets the default fan-out for batch simplification.
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithLogger sets the logger used for pass diagnostics and data-quality
// warnings. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.Logger = logger
	}
}
