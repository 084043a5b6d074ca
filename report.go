package fhirsimplifier

import (
	"fmt"
	"time"
)

// Collision records two groups producing the same simplified key during the
// final flatten. The later-processed group's property is kept.
type Collision struct {
	// Key is the simplified key both properties rewrote to
	Key string `json:"key"`

	// KeptRoot is the root element id of the group whose property survived
	KeptRoot string `json:"keptRoot"`

	// DiscardedRoot is the root element id of the group whose property
	// was overwritten
	DiscardedRoot string `json:"discardedRoot"`
}

// Report summarizes one simplification run. The context itself carries the
// rewritten properties; the report carries everything an integrator needs to
// audit what the passes did.
type Report struct {
	// PropertiesIn is the number of properties before simplification
	PropertiesIn int `json:"propertiesIn"`

	// PropertiesOut is the number of properties after simplification
	PropertiesOut int `json:"propertiesOut"`

	// Rewrites counts renamed or replaced properties per pass name
	Rewrites map[string]int `json:"rewrites,omitempty"`

	// Dropped lists flattened keys discarded without a replacement
	// (extension entries with no resolvable value, unpaired coding keys)
	Dropped []string `json:"dropped,omitempty"`

	// Collisions lists final-key collisions across groups
	Collisions []Collision `json:"collisions,omitempty"`

	// Duration is how long the run took
	Duration time.Duration `json:"duration"`
}

// NewReport creates an empty report for a run over n input properties.
func NewReport(n int) *Report {
	return &Report{
		PropertiesIn: n,
		Rewrites:     make(map[string]int, 4),
	}
}

// RecordRewrites adds a pass's rewrite count.
func (r *Report) RecordRewrites(pass string, n int) {
	if n > 0 {
		r.Rewrites[pass] += n
	}
}

// RecordDropped records a key discarded without replacement.
func (r *Report) RecordDropped(keys ...string) {
	r.Dropped = append(r.Dropped, keys...)
}

// RecordCollision records a final-key collision.
func (r *Report) RecordCollision(key, keptRoot, discardedRoot string) {
	r.Collisions = append(r.Collisions, Collision{
		Key:           key,
		KeptRoot:      keptRoot,
		DiscardedRoot: discardedRoot,
	})
}

// TotalRewrites returns the rewrite count across all passes.
func (r *Report) TotalRewrites() int {
	total := 0
	for _, n := range r.Rewrites {
		total += n
	}
	return total
}

// HasCollisions returns true if any final-key collision occurred.
func (r *Report) HasCollisions() bool {
	return len(r.Collisions) > 0
}

// HasDropped returns true if any property was discarded without replacement.
func (r *Report) HasDropped() bool {
	return len(r.Dropped) > 0
}

// Summary returns a one-line human-readable summary of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d properties in, %d out, %d rewrites, %d dropped, %d collisions in %s",
		r.PropertiesIn, r.PropertiesOut, r.TotalRewrites(), len(r.Dropped), len(r.Collisions), r.Duration)
}
