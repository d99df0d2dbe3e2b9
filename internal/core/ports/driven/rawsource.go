package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// RawSource provides the harvested records of a run.
type RawSource interface {
	// Records returns every raw record for the run suffix, in source order.
	// Order matters: it breaks ties when rows disagree.
	Records(ctx context.Context, suffix string) ([]domain.RawRecord, error)
}
