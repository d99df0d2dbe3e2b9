package memory

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Ensure ReferenceSource implements the interfaces.
var (
	_ driven.CensusSource       = (*ReferenceSource)(nil)
	_ driven.OccupationalSource = (*ReferenceSource)(nil)
	_ driven.JobCodeSource      = (*ReferenceSource)(nil)
)

// ReferenceSource serves preloaded reference datasets.
type ReferenceSource struct {
	Census       []domain.CensusRow
	Occupational map[string][]domain.OccupationalRecord
	JobCodes     map[string][]domain.JobCode

	// Err, when set, is returned by every load.
	Err error
}

// LoadCensus returns the census rows.
func (s *ReferenceSource) LoadCensus(_ context.Context) ([]domain.CensusRow, error) {
	return s.Census, s.Err
}

// LoadOccupational returns the occupational registry.
func (s *ReferenceSource) LoadOccupational(_ context.Context) (map[string][]domain.OccupationalRecord, error) {
	return s.Occupational, s.Err
}

// LoadJobCodes returns the job-code taxonomy.
func (s *ReferenceSource) LoadJobCodes(_ context.Context) (map[string][]domain.JobCode, error) {
	return s.JobCodes, s.Err
}
