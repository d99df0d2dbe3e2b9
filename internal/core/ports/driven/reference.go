package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// CensusSource loads the enrollment census in full.
type CensusSource interface {
	LoadCensus(ctx context.Context) ([]domain.CensusRow, error)
}

// OccupationalSource loads the occupational registry, keyed by lookup key.
type OccupationalSource interface {
	LoadOccupational(ctx context.Context) (map[string][]domain.OccupationalRecord, error)
}

// JobCodeSource loads the job-code taxonomy, keyed by lookup key.
type JobCodeSource interface {
	LoadJobCodes(ctx context.Context) (map[string][]domain.JobCode, error)
}
