package driven

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// InstitutionDirectory queries the institution directory.
// Transport failures are returned as errors; an empty result is not an error.
type InstitutionDirectory interface {
	// Search returns the structures matching an establishment code.
	// Results may include deleted structures and structures that merely
	// mention the code; callers filter.
	Search(ctx context.Context, code string) ([]domain.Structure, error)

	// Relations returns the relations with the given tag whose related
	// object is structureID. Results are sorted by start date, most recent first.
	Relations(ctx context.Context, structureID string, tag domain.RelationTag) ([]domain.Relation, error)

	// Get returns a structure by id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Structure, error)
}
