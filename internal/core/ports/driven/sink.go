package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// Artifacts names the files produced by a DocumentSink.
type Artifacts struct {
	DocumentsPath string
	FaultsPath    string
}

// DocumentSink writes the run's handoff artifacts: one JSON document per
// line, and the parallel structured fault log.
type DocumentSink interface {
	Write(ctx context.Context, suffix string, docs []domain.Document, faults []domain.Fault) (Artifacts, error)
}
