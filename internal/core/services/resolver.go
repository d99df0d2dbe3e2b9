package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driving.InstitutionLookup = (*Resolver)(nil)

// Resolver resolves establishment codes to canonical institution
// identities. It is a run-scoped session object: the run cache holds every
// result of the run, and the table holds the cross-run resolutions,
// loaded once and only ever appended to.
type Resolver struct {
	directory driven.InstitutionDirectory
	faults    *FaultLog

	cache  map[string]domain.Resolution
	table  map[string]domain.InstitutionIdentity
	counts map[domain.ResolutionMethod]int
	added  int
}

// NewResolver creates a resolver seeded with a persisted resolution table.
// The table is copied; it may be nil.
func NewResolver(
	directory driven.InstitutionDirectory,
	table map[string]domain.InstitutionIdentity,
	faults *FaultLog,
) *Resolver {
	seeded := make(map[string]domain.InstitutionIdentity, len(table))
	maps.Copy(seeded, table)
	return &Resolver{
		directory: directory,
		faults:    faults,
		cache:     make(map[string]domain.Resolution),
		table:     seeded,
		counts:    make(map[domain.ResolutionMethod]int),
	}
}

// Resolve returns the identity of an establishment code.
// Cached codes are answered without IO. Ambiguous codes are returned as
// an explicit ambiguous result; only directory failures are errors.
func (r *Resolver) Resolve(ctx context.Context, code string) (domain.Resolution, error) {
	if res, ok := r.cache[code]; ok {
		return res, nil
	}
	if identity, ok := r.table[code]; ok {
		res := resolutionOf(identity)
		r.remember(code, res, false)
		return res, nil
	}

	logger.Debug("Resolving establishment %s against the directory", code)
	res, err := r.lookup(ctx, code)
	if err != nil {
		return domain.Resolution{}, err
	}
	r.remember(code, res, !res.IsAmbiguous())
	return res, nil
}

// Table returns a copy of the cross-run resolution table.
func (r *Resolver) Table() map[string]domain.InstitutionIdentity {
	out := make(map[string]domain.InstitutionIdentity, len(r.table))
	maps.Copy(out, r.table)
	return out
}

// Added returns the number of resolutions added to the table in this run.
func (r *Resolver) Added() int {
	return r.added
}

// Counts returns the number of codes resolved per method in this run.
// Ambiguous codes are not counted.
func (r *Resolver) Counts() map[domain.ResolutionMethod]int {
	out := make(map[domain.ResolutionMethod]int, len(r.counts))
	maps.Copy(out, r.counts)
	return out
}

func (r *Resolver) remember(code string, res domain.Resolution, persist bool) {
	r.cache[code] = res
	if res.IsAmbiguous() {
		return
	}
	r.counts[res.Identity.Method]++
	if persist {
		r.table[code] = res.Identity
		r.added++
	}
}

func resolutionOf(identity domain.InstitutionIdentity) domain.Resolution {
	status := domain.ResolutionFound
	if identity.Method == domain.MethodNone || identity.Resolved == nil {
		status = domain.ResolutionNotFound
	}
	return domain.Resolution{Status: status, Identity: identity}
}

// lookup queries the directory: direct match, then parent, then successor.
func (r *Resolver) lookup(ctx context.Context, code string) (domain.Resolution, error) {
	found, err := r.directory.Search(ctx, code)
	if err != nil {
		return domain.Resolution{}, unavailable("search "+code, err)
	}

	var candidates, active []domain.Structure
	for _, s := range found {
		if s.IsDeleted || !s.HasIdentifier(code) {
			continue
		}
		candidates = append(candidates, s)
		if s.IsActive() {
			active = append(active, s)
		}
	}

	switch {
	case len(active) > 1:
		refs := make([]domain.StructureRef, len(active))
		for i, s := range active {
			refs[i] = s.Ref()
		}
		r.faults.Ambiguity(subsystemResolver, "multiple_active_structures", append([]string{code}, refIDs(refs)...)...)
		return domain.Resolution{Status: domain.ResolutionAmbiguous, Identity: domain.InstitutionIdentity{Code: code}, Candidates: refs}, nil

	case len(active) == 1:
		ref := active[0].Ref()
		return foundAs(code, domain.MethodDirect, &ref, &ref), nil

	case len(candidates) == 0:
		return notFound(code), nil
	}

	first := candidates[0].ID

	parents, err := r.parents(ctx, first)
	if err != nil {
		return domain.Resolution{}, err
	}
	if len(parents) > 1 {
		r.faults.Ambiguity(subsystemResolver, "multiple_parents", append([]string{code}, refIDs(parents)...)...)
		return domain.Resolution{Status: domain.ResolutionAmbiguous, Identity: domain.InstitutionIdentity{Code: code}, Candidates: parents}, nil
	}
	if len(parents) == 1 {
		return foundAs(code, domain.MethodParent, nil, &parents[0]), nil
	}

	successor, err := r.successor(ctx, first)
	if err != nil {
		return domain.Resolution{}, err
	}
	if successor != nil {
		return foundAs(code, domain.MethodSuccessor, nil, successor), nil
	}

	return notFound(code), nil
}

// parents returns the current part-of parents of a structure.
func (r *Resolver) parents(ctx context.Context, structureID string) ([]domain.StructureRef, error) {
	relations, err := r.directory.Relations(ctx, structureID, domain.RelationPartOf)
	if err != nil {
		return nil, unavailable("parents of "+structureID, err)
	}

	var refs []domain.StructureRef
	for _, rel := range relations {
		if !rel.IsCurrent() {
			continue
		}
		ref, err := r.structure(ctx, rel.ResourceID)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, nil
}

// successor returns the most recent successor of a structure, or nil.
func (r *Resolver) successor(ctx context.Context, structureID string) (*domain.StructureRef, error) {
	relations, err := r.directory.Relations(ctx, structureID, domain.RelationSupersededBy)
	if err != nil {
		return nil, unavailable("successors of "+structureID, err)
	}
	sort.SliceStable(relations, func(i, j int) bool {
		return relations[i].StartDate > relations[j].StartDate
	})

	for _, rel := range relations {
		ref, err := r.structure(ctx, rel.ResourceID)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			return ref, nil
		}
	}
	return nil, nil
}

// structure fetches a related structure. Dangling relations yield nil.
func (r *Resolver) structure(ctx context.Context, id string) (*domain.StructureRef, error) {
	s, err := r.directory.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Relation points to missing structure %s", id)
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get structure "+id, err)
	}
	ref := s.Ref()
	return &ref, nil
}

func foundAs(code string, method domain.ResolutionMethod, matched, resolved *domain.StructureRef) domain.Resolution {
	return domain.Resolution{
		Status: domain.ResolutionFound,
		Identity: domain.InstitutionIdentity{
			Code:     code,
			Method:   method,
			Matched:  matched,
			Resolved: resolved,
		},
	}
}

func notFound(code string) domain.Resolution {
	return domain.Resolution{
		Status:   domain.ResolutionNotFound,
		Identity: domain.InstitutionIdentity{Code: code, Method: domain.MethodNone},
	}
}

func refIDs(refs []domain.StructureRef) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, domain.ErrReferenceDataUnavailable, err)
}
