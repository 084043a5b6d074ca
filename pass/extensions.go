package pass

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	fs "github.com/gofhir/simplifier"
	"github.com/gofhir/simplifier/pipeline"
)

// ExtensionPass collapses FHIR-extension-shaped groups into directly named
// key/value properties, discarding the numeric-index/url indirection.
//
// Only groups whose root element id ends in "extension" are touched. For
// each extension entry the url's final segment names the extension; for each
// sub-extension entry the sub-url's final segment names the value, which is
// looked up at valueCoding.code first and valueString second. The produced
// clones replace the entire original group.
type ExtensionPass struct {
	logger *zap.Logger
}

// NewExtensionPass creates a new extension simplification pass.
func NewExtensionPass(logger *zap.Logger) *ExtensionPass {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtensionPass{logger: logger}
}

// Name returns the pass name.
func (p *ExtensionPass) Name() string {
	return "extensions"
}

// Apply rewrites every extension-rooted group. A context with no such group
// is a no-op. A url missing for an index the existence scan found is a
// contract violation and fails with *fs.ExtensionError.
func (p *ExtensionPass) Apply(_ context.Context, groups *pipeline.Groups) (pipeline.PassResult, error) {
	var result pipeline.PassResult

	for _, root := range groups.Roots() {
		if !strings.HasSuffix(root, "extension") {
			continue
		}

		simplified, dropped, err := p.simplifyGroup(groups.Get(root))
		if err != nil {
			return result, err
		}

		result.Rewrites += len(simplified)
		result.Dropped = append(result.Dropped, dropped...)
		groups.Set(root, simplified)
	}

	return result, nil
}

// simplifyGroup walks the numbered extension entries and produces one named
// property per resolvable sub-extension value.
func (p *ExtensionPass) simplifyGroup(props []*fs.Property) ([]*fs.Property, []string, error) {
	simplified := make([]*fs.Property, 0, len(props)/3)
	var dropped []string

	for extIndex := 0; ; extIndex++ {
		prefix := "extension." + strconv.Itoa(extIndex)
		if !anyKeyHasPrefix(props, prefix) {
			break
		}

		extName, err := p.resolveName(props, prefix+".url", extIndex, -1)
		if err != nil {
			return nil, nil, err
		}

		for subIndex := 0; ; subIndex++ {
			subPrefix := prefix + ".extension." + strconv.Itoa(subIndex)
			if !anyKeyContains(props, subPrefix) {
				break
			}

			subName, err := p.resolveName(props, subPrefix+".url", extIndex, subIndex)
			if err != nil {
				return nil, nil, err
			}

			value := findKey(props, subPrefix+".valueCoding.code")
			if value == nil {
				value = findKey(props, subPrefix+".valueString")
			}
			if value == nil {
				// Neither value form is present: skip the entry rather
				// than fabricate a null property.
				p.logger.Warn("extension entry has no resolvable value, dropping",
					zap.String("extension", extName),
					zap.String("subExtension", subName),
					zap.Int("extensionIndex", extIndex),
					zap.Int("subExtensionIndex", subIndex))
				dropped = append(dropped, subPrefix)
				continue
			}

			simplified = append(simplified, value.WithKey(extName+"."+subName))
		}
	}

	return simplified, dropped, nil
}

// resolveName locates a url property and returns its value's final segment.
func (p *ExtensionPass) resolveName(props []*fs.Property, urlKey string, extIndex, subIndex int) (string, error) {
	urlProp := findKey(props, urlKey)
	if urlProp == nil {
		return "", &fs.ExtensionError{Index: extIndex, SubIndex: subIndex, Reason: "url property not found"}
	}
	url, ok := urlProp.StringValue()
	if !ok {
		return "", &fs.ExtensionError{Index: extIndex, SubIndex: subIndex, Reason: "url value is not a string"}
	}
	return lastSegment(url), nil
}
