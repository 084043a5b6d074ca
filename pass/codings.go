package pass

import (
	"context"
	"strings"

	"go.uber.org/zap"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

// CodingPass collapses a coding system/code/display triple into compact
// properties: system+code becomes "<base>.<systemTag>" and system+display
// becomes "<base>.<systemTag>.display", where base is the system key without
// its ".coding.system" suffix and systemTag is the final '/'-segment of the
// system value.
//
// At most one triple per group is handled (first match wins). Every found
// system/code/display property is removed from the group's output even when
// no compact property can be built from it.
type CodingPass struct {
	logger *zap.Logger
}

// NewCodingPass creates a new coding simplification pass.
func NewCodingPass(logger *zap.Logger) *CodingPass {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodingPass{logger: logger}
}

// Name returns the pass name.
func (p *CodingPass) Name() string {
	return "codings"
}

// Apply rewrites the coding triple in every group that has one.
// Groups without a coding key pass through unchanged.
func (p *CodingPass) Apply(_ context.Context, groups *pipeline.Groups) (pipeline.PassResult, error) {
	var result pipeline.PassResult

	for _, root := range groups.Roots() {
		props := groups.Get(root)

		// First key with each suffix, among keys containing "coding".
		var system, code, display *fs.Property
		for _, q := range props {
			key := q.FlattenedKey
			if !strings.Contains(key, "coding") {
				continue
			}
			switch {
			case system == nil && strings.HasSuffix(key, ".coding.system"):
				system = q
			case code == nil && strings.HasSuffix(key, ".coding.code"):
				code = q
			case display == nil && strings.HasSuffix(key, ".coding.display"):
				display = q
			}
		}
		if system == nil && code == nil && display == nil {
			continue
		}

		var produced []*fs.Property
		if system != nil {
			systemValue, ok := system.StringValue()
			if !ok {
				p.logger.Warn("coding system value is not a string, leaving group unchanged",
					zap.String("key", system.FlattenedKey))
				continue
			}
			baseKey := strings.TrimSuffix(system.FlattenedKey, ".coding.system")
			systemTag := lastSegment(systemValue)

			if code != nil {
				produced = append(produced, code.WithKey(baseKey+"."+systemTag))
			}
			if display != nil {
				produced = append(produced, display.WithKey(baseKey+"."+systemTag+".display"))
			}
		}

		// Remove the originals and append whatever was produced. A code or
		// display with no usable system partner disappears here.
		replaced := make([]*fs.Property, 0, len(props))
		for _, q := range props {
			if q == system || q == code || q == display {
				if len(produced) == 0 {
					result.Dropped = append(result.Dropped, q.FlattenedKey)
				}
				continue
			}
			replaced = append(replaced, q)
		}
		replaced = append(replaced, produced...)

		groups.Set(root, replaced)
		result.Rewrites += len(produced)
	}

	return result, nil
}
