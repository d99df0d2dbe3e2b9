package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Ensure ResolutionStore implements the interface.
var _ driven.ResolutionStore = (*ResolutionStore)(nil)

// ResolutionStore is an in-memory implementation of driven.ResolutionStore.
type ResolutionStore struct {
	mu       sync.RWMutex
	table    map[string]domain.InstitutionIdentity
	replaces int
}

// NewResolutionStore creates a new in-memory resolution store.
func NewResolutionStore() *ResolutionStore {
	return &ResolutionStore{
		table: make(map[string]domain.InstitutionIdentity),
	}
}

// Load returns a copy of the stored table.
func (s *ResolutionStore) Load(_ context.Context) (map[string]domain.InstitutionIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.InstitutionIdentity, len(s.table))
	maps.Copy(out, s.table)
	return out, nil
}

// Replace swaps the stored table for a copy of table.
func (s *ResolutionStore) Replace(_ context.Context, table map[string]domain.InstitutionIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[string]domain.InstitutionIdentity, len(table))
	maps.Copy(s.table, table)
	s.replaces++
	return nil
}

// Replaces returns how many times the table was replaced.
func (s *ResolutionStore) Replaces() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replaces
}
