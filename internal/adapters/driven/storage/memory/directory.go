package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.InstitutionDirectory = (*Directory)(nil)

// Directory is an in-memory institution directory.
// Search matches structures by identifier prefix, like an autocomplete.
type Directory struct {
	mu         sync.RWMutex
	structures []domain.Structure
	relations  []domain.Relation
	calls      int

	// Err, when set, is returned by every call.
	Err error
}

// NewDirectory creates a new in-memory directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// AddStructure registers a structure.
func (d *Directory) AddStructure(s domain.Structure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.structures = append(d.structures, s)
}

// AddRelation registers a relation.
func (d *Directory) AddRelation(r domain.Relation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.relations = append(d.relations, r)
}

// Calls returns the number of directory calls served.
func (d *Directory) Calls() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.calls
}

// Search returns structures with an identifier starting with code.
func (d *Directory) Search(_ context.Context, code string) ([]domain.Structure, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.Err != nil {
		return nil, d.Err
	}

	var out []domain.Structure
	for _, s := range d.structures {
		for _, id := range s.Identifiers {
			if strings.HasPrefix(id, code) {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

// Relations returns relations of a tag for a related object, most recent first.
func (d *Directory) Relations(_ context.Context, structureID string, tag domain.RelationTag) ([]domain.Relation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.Err != nil {
		return nil, d.Err
	}

	var out []domain.Relation
	for _, r := range d.relations {
		if r.RelatedObjectID == structureID && r.Tag == tag {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate > out[j].StartDate
	})
	return out, nil
}

// Get returns a structure by id.
func (d *Directory) Get(_ context.Context, id string) (*domain.Structure, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.Err != nil {
		return nil, d.Err
	}

	for _, s := range d.structures {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}
