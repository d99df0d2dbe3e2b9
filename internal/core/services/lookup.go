package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
)

// Ensure LookupService implements the interfaces.
var (
	_ driving.InstitutionLookup = (*LookupService)(nil)
	_ driving.RunHistory        = (*RunHistoryService)(nil)
)

// LookupService resolves single establishment codes outside a run, using
// and extending the persisted resolution table.
type LookupService struct {
	directory driven.InstitutionDirectory
	store     driven.ResolutionStore
	faults    *FaultLog
}

// NewLookupService creates a lookup service.
func NewLookupService(directory driven.InstitutionDirectory, store driven.ResolutionStore) *LookupService {
	return &LookupService{directory: directory, store: store, faults: NewFaultLog()}
}

// Resolve resolves code and persists the table if the code was new.
// Ambiguous codes are returned as a result wrapping ErrResolutionAmbiguous.
func (s *LookupService) Resolve(ctx context.Context, code string) (domain.Resolution, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("load resolution table: %w", err)
	}

	resolver := NewResolver(s.directory, table, s.faults)
	res, err := resolver.Resolve(ctx, code)
	if err != nil {
		return domain.Resolution{}, err
	}

	if resolver.Added() > 0 {
		if err := s.store.Replace(ctx, resolver.Table()); err != nil {
			return res, fmt.Errorf("persist resolution table: %w", err)
		}
	}
	if res.IsAmbiguous() {
		return res, fmt.Errorf("%w: %s has %d candidates", domain.ErrResolutionAmbiguous, code, len(res.Candidates))
	}
	return res, nil
}

// RunHistoryService lists past runs.
type RunHistoryService struct {
	store driven.RunStore
}

// NewRunHistoryService creates a run history service.
func NewRunHistoryService(store driven.RunStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// List returns the most recent runs first.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	return s.store.ListRuns(ctx, limit)
}
