package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// ResolutionStore persists the establishment resolution table across runs.
// The table is loaded entirely and replaced entirely, never upserted.
type ResolutionStore interface {
	// Load returns the persisted table keyed by establishment code.
	// An empty store returns an empty map.
	Load(ctx context.Context) (map[string]domain.InstitutionIdentity, error)

	// Replace atomically swaps the persisted table for the given one.
	Replace(ctx context.Context, table map[string]domain.InstitutionIdentity) error
}
