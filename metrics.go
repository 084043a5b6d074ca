package fhirsimplifier

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks simplification performance metrics using lock-free atomic
// operations. All methods are safe for concurrent use, so a single Metrics
// instance can be shared by workers simplifying independent contexts.
type Metrics struct {
	// Run counts
	runsTotal atomic.Uint64

	// Timing (stored as nanoseconds)
	runTimeTotal atomic.Uint64
	runTimeMin   atomic.Uint64
	runTimeMax   atomic.Uint64

	// Property counts
	propertiesIn  atomic.Uint64
	propertiesOut atomic.Uint64

	// Outcome counts
	droppedTotal    atomic.Uint64
	collisionsTotal atomic.Uint64

	// Per-pass timing (map access via sync.Map)
	passTiming sync.Map // map[string]*passMetrics
}

// passMetrics tracks metrics for a single simplification pass.
type passMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	rewrites    atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.runTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordRun records a completed simplification run.
func (m *Metrics) RecordRun(duration time.Duration, propertiesIn, propertiesOut int) {
	m.runsTotal.Add(1)
	m.propertiesIn.Add(uint64(propertiesIn))   //nolint:gosec // Safe: counts are small positive integers
	m.propertiesOut.Add(uint64(propertiesOut)) //nolint:gosec // Safe: counts are small positive integers

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.runTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.runTimeMin.Load()
		if ns >= old {
			break
		}
		if m.runTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.runTimeMax.Load()
		if ns <= old {
			break
		}
		if m.runTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordPass records metrics for one simplification pass.
func (m *Metrics) RecordPass(passName string, duration time.Duration, rewrites int) {
	pm := m.getOrCreatePassMetrics(passName)
	pm.invocations.Add(1)
	pm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	pm.rewrites.Add(uint64(rewrites))                //nolint:gosec // Safe: rewrites is a small positive integer
}

// RecordDropped records properties discarded without replacement.
func (m *Metrics) RecordDropped(n int) {
	if n > 0 {
		m.droppedTotal.Add(uint64(n)) //nolint:gosec // Safe: n is a small positive integer
	}
}

// RecordCollisions records final-key collisions.
func (m *Metrics) RecordCollisions(n int) {
	if n > 0 {
		m.collisionsTotal.Add(uint64(n)) //nolint:gosec // Safe: n is a small positive integer
	}
}

func (m *Metrics) getOrCreatePassMetrics(name string) *passMetrics {
	if v, ok := m.passTiming.Load(name); ok {
		return v.(*passMetrics)
	}
	pm := &passMetrics{}
	actual, _ := m.passTiming.LoadOrStore(name, pm)
	return actual.(*passMetrics)
}

// --- Query Methods ---

// RunsTotal returns the total number of simplification runs.
func (m *Metrics) RunsTotal() uint64 {
	return m.runsTotal.Load()
}

// PropertiesIn returns the total properties received across all runs.
func (m *Metrics) PropertiesIn() uint64 {
	return m.propertiesIn.Load()
}

// PropertiesOut returns the total properties produced across all runs.
func (m *Metrics) PropertiesOut() uint64 {
	return m.propertiesOut.Load()
}

// CompactionRate returns output properties as a fraction of input (0.0 to 1.0).
func (m *Metrics) CompactionRate() float64 {
	in := m.propertiesIn.Load()
	if in == 0 {
		return 0
	}
	return float64(m.propertiesOut.Load()) / float64(in)
}

// DroppedTotal returns the total properties discarded without replacement.
func (m *Metrics) DroppedTotal() uint64 {
	return m.droppedTotal.Load()
}

// CollisionsTotal returns the total final-key collisions.
func (m *Metrics) CollisionsTotal() uint64 {
	return m.collisionsTotal.Load()
}

// AverageRunTime returns the average run duration.
func (m *Metrics) AverageRunTime() time.Duration {
	total := m.runsTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.runTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinRunTime returns the minimum run duration.
func (m *Metrics) MinRunTime() time.Duration {
	minVal := m.runTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxRunTime returns the maximum run duration.
func (m *Metrics) MaxRunTime() time.Duration {
	return time.Duration(m.runTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// PassStats contains statistics for a single pass.
type PassStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	Rewrites    uint64
}

// PassStats returns statistics for a specific pass.
func (m *Metrics) PassStats(passName string) (PassStats, bool) {
	v, ok := m.passTiming.Load(passName)
	if !ok {
		return PassStats{Name: passName}, false
	}
	pm := v.(*passMetrics)
	return buildPassStats(passName, pm), true
}

// AllPassStats returns statistics for all passes.
func (m *Metrics) AllPassStats() []PassStats {
	var stats []PassStats
	m.passTiming.Range(func(key, value any) bool {
		stats = append(stats, buildPassStats(key.(string), value.(*passMetrics)))
		return true
	})
	return stats
}

func buildPassStats(name string, pm *passMetrics) PassStats {
	invocations := pm.invocations.Load()
	totalTime := pm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}

	return PassStats{
		Name:        name,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:     avgTime,
		Rewrites:    pm.rewrites.Load(),
	}
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp when the snapshot was taken
	Timestamp time.Time `json:"timestamp"`

	// Run metrics
	RunsTotal     uint64  `json:"runs_total"`
	PropertiesIn  uint64  `json:"properties_in"`
	PropertiesOut uint64  `json:"properties_out"`
	CompactionRate float64 `json:"compaction_rate"`

	// Timing metrics (in nanoseconds for precision)
	AvgRunTimeNs uint64 `json:"avg_run_time_ns"`
	MinRunTimeNs uint64 `json:"min_run_time_ns"`
	MaxRunTimeNs uint64 `json:"max_run_time_ns"`

	// Outcome metrics
	DroppedTotal    uint64 `json:"dropped_total"`
	CollisionsTotal uint64 `json:"collisions_total"`

	// Pass metrics
	Passes []PassStats `json:"passes,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.runsTotal.Load()

	var avgTime float64
	if total > 0 {
		avgTime = float64(m.runTimeTotal.Load()) / float64(total)
	}

	minTime := m.runTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:       time.Now(),
		RunsTotal:       total,
		PropertiesIn:    m.propertiesIn.Load(),
		PropertiesOut:   m.propertiesOut.Load(),
		CompactionRate:  m.CompactionRate(),
		AvgRunTimeNs:    uint64(avgTime),
		MinRunTimeNs:    minTime,
		MaxRunTimeNs:    m.runTimeMax.Load(),
		DroppedTotal:    m.droppedTotal.Load(),
		CollisionsTotal: m.collisionsTotal.Load(),
		Passes:          m.AllPassStats(),
	}
}

// Export returns metrics as a map suitable for external systems.
func (m *Metrics) Export() map[string]any {
	s := m.Snapshot()
	return map[string]any{
		"runs_total":       s.RunsTotal,
		"properties_in":    s.PropertiesIn,
		"properties_out":   s.PropertiesOut,
		"compaction_rate":  s.CompactionRate,
		"avg_run_time_ns":  s.AvgRunTimeNs,
		"min_run_time_ns":  s.MinRunTimeNs,
		"max_run_time_ns":  s.MaxRunTimeNs,
		"dropped_total":    s.DroppedTotal,
		"collisions_total": s.CollisionsTotal,
	}
}
