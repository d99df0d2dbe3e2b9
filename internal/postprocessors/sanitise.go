package postprocessors

import (
	"context"
	"math"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.PostProcessor = (*Sanitiser)(nil)

// Sanitiser removes null and NaN values from a document, recursively.
// Empty strings and empty lists are kept: they mean "enriched, no result".
type Sanitiser struct{}

// NewSanitiser creates a sanitiser.
func NewSanitiser() *Sanitiser {
	return &Sanitiser{}
}

// Name returns the processor identifier.
func (s *Sanitiser) Name() string {
	return NameSanitise
}

// Process returns a sanitised copy of the document.
func (s *Sanitiser) Process(_ context.Context, doc domain.Document) (domain.Document, error) {
	return domain.Document(sanitiseMap(doc)), nil
}

func sanitiseMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if dropped(v) {
			continue
		}
		out[k] = sanitise(v)
	}
	return out
}

func sanitise(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return sanitiseMap(val)
	case domain.Document:
		return domain.Document(sanitiseMap(val))
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if dropped(item) {
				continue
			}
			out = append(out, sanitise(item))
		}
		return out
	default:
		return v
	}
}

func dropped(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(val)
	case float32:
		return math.IsNaN(float64(val))
	default:
		return false
	}
}
