package driving

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// PipelineRunner runs the full-rebuild transformation for a suffix.
type PipelineRunner interface {
	// Run transforms the raw records of suffix into canonical documents.
	// It returns an error only for run-level faults; record-level faults
	// are counted in the returned run.
	Run(ctx context.Context, suffix string) (*domain.Run, error)

	// Progress returns the number of programs formatted so far in the
	// current run, and the total, for progress display.
	Progress() (done, total int)
}

// RunHistory lists past pipeline runs.
type RunHistory interface {
	List(ctx context.Context, limit int) ([]domain.Run, error)
}
