package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// RunStore persists pipeline run summaries.
type RunStore interface {
	// SaveRun stores or updates a run.
	SaveRun(ctx context.Context, run domain.Run) error

	// ListRuns returns the most recent runs first, at most limit of them.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}
