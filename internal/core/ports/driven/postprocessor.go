package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// PostProcessor transforms a formatted document before it is written.
type PostProcessor interface {
	// Name returns the processor identifier.
	Name() string

	// Process returns the transformed document.
	Process(ctx context.Context, doc domain.Document) (domain.Document, error)
}

// PostProcessorPipeline chains post-processors.
type PostProcessorPipeline interface {
	// Process runs the document through every processor in order.
	Process(ctx context.Context, doc domain.Document) (domain.Document, error)
}
