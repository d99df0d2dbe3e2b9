package domain

import (
	"fmt"
	"slices"
)

// StructureStatusActive is the directory status of a live structure.
const StructureStatusActive = "active"

// Structure is one candidate returned by the institution directory.
type Structure struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Identifiers []string  `json:"identifiers"`
	IsDeleted   bool      `json:"isDeleted"`
	Status      string    `json:"structureStatus"`
	Coordinates []float64 `json:"coordinates,omitempty"` // lon, lat
}

// IsActive returns true if the structure is live and not deleted.
func (s Structure) IsActive() bool {
	return !s.IsDeleted && s.Status == StructureStatusActive
}

// HasIdentifier returns true if code is one of the structure's identifiers.
func (s Structure) HasIdentifier(code string) bool {
	return slices.Contains(s.Identifiers, code)
}

// Geoloc packs the structure's name and coordinates as name###lat###lon.
// Returns the empty string when coordinates are missing.
func (s Structure) Geoloc() string {
	if len(s.Coordinates) != 2 {
		return ""
	}
	return fmt.Sprintf("%s###%v###%v", s.Name, s.Coordinates[1], s.Coordinates[0])
}

// Ref returns the structure's reference as carried by an identity.
func (s Structure) Ref() StructureRef {
	return StructureRef{ID: s.ID, Name: s.Name, Geoloc: s.Geoloc()}
}

// StructureRef identifies a directory structure with its geocoding.
type StructureRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Geoloc string `json:"geoloc,omitempty"`
}

// RelationTag identifies a kind of relation between structures.
type RelationTag string

// Relation tags used for resolution.
const (
	// RelationPartOf links an internal structure to its parent.
	RelationPartOf RelationTag = "structure-interne"

	// RelationSupersededBy links a predecessor to its successor.
	RelationSupersededBy RelationTag = "structure-predecesseur"
)

// Relation is an edge between two directory structures.
// ResourceID is the parent (or successor) of RelatedObjectID.
type Relation struct {
	ResourceID      string      `json:"resourceId"`
	RelatedObjectID string      `json:"relatedObjectId"`
	Tag             RelationTag `json:"relationTag"`
	StartDate       string      `json:"startDate,omitempty"`
	EndDate         *string     `json:"endDate,omitempty"`
	Active          *bool       `json:"active,omitempty"`
}

// IsCurrent returns true if the relation has no end date and is not
// explicitly inactive.
func (r Relation) IsCurrent() bool {
	return r.EndDate == nil && (r.Active == nil || *r.Active)
}

// ResolutionMethod records how an establishment code was resolved.
type ResolutionMethod string

// Resolution methods.
const (
	MethodDirect    ResolutionMethod = "direct"
	MethodParent    ResolutionMethod = "parent"
	MethodSuccessor ResolutionMethod = "successeur"
	MethodNone      ResolutionMethod = "no"
)

// InstitutionIdentity is the canonical identity of an establishment code.
type InstitutionIdentity struct {
	// Code is the establishment code that was resolved.
	Code string `json:"code"`

	// Method is the resolution method used.
	Method ResolutionMethod `json:"method"`

	// Matched is the single active structure carrying the code, if any.
	Matched *StructureRef `json:"matched,omitempty"`

	// Resolved is the structure to use: Matched, a parent or a successor.
	Resolved *StructureRef `json:"resolved,omitempty"`
}

// ResolvedID returns the id of the structure to use, or "".
func (i InstitutionIdentity) ResolvedID() string {
	if i.Resolved == nil {
		return ""
	}
	return i.Resolved.ID
}

// ResolutionStatus is the outcome kind of a resolver call.
type ResolutionStatus string

// Resolution outcomes.
const (
	ResolutionFound     ResolutionStatus = "found"
	ResolutionNotFound  ResolutionStatus = "not_found"
	ResolutionAmbiguous ResolutionStatus = "ambiguous"
)

// Resolution is the explicit result of resolving an establishment code.
type Resolution struct {
	Status ResolutionStatus

	// Identity is set for found and not_found results.
	Identity InstitutionIdentity

	// Candidates lists every structure that could not be told apart.
	// Only set for ambiguous results.
	Candidates []StructureRef
}

// IsFound returns true if the code resolved to a structure.
func (r Resolution) IsFound() bool {
	return r.Status == ResolutionFound
}

// IsAmbiguous returns true if several candidates were found.
func (r Resolution) IsAmbiguous() bool {
	return r.Status == ResolutionAmbiguous
}
