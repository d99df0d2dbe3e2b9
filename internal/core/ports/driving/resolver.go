package driving

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// InstitutionLookup resolves a single establishment code on demand.
type InstitutionLookup interface {
	Resolve(ctx context.Context, code string) (domain.Resolution, error)
}
