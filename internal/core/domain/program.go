package domain

// EstablishmentParticipation is one establishment's share of a program:
// the establishment-scoped fields of one raw row.
type EstablishmentParticipation struct {
	// Code is the establishment code, or a uai_absent_<n> placeholder.
	Code string

	// Synthetic is true when Code is a placeholder for a missing code.
	Synthetic bool

	// RowIndex is the row's position in the raw input.
	RowIndex int

	// Fields holds the establishment-scoped payload fields.
	Fields map[string]any

	// Resolution is the directory identity, set during enrichment.
	Resolution *Resolution
}

// String returns an establishment field as a string.
func (e EstablishmentParticipation) String(field string) string {
	s, _ := e.Fields[field].(string)
	return s
}

// GroupedProgram is one logical program built from all rows sharing
// a natural id. It is enriched in place and consumed once by the formatter.
type GroupedProgram struct {
	// NaturalID is the program's invariant identifier (inf).
	NaturalID string

	// Fields holds program-level payload fields. The first row's value wins.
	Fields map[string]any

	// Establishments is ordered by first appearance in the input.
	Establishments []EstablishmentParticipation

	// Envelope fields of the first row.
	RecordID     string
	CollectionID string
	BucketID     string

	// AccreditationStart is the earliest accreditation start across rows.
	AccreditationStart string

	// AccreditationEnd is the latest accreditation end across rows.
	AccreditationEnd string

	// Codes holds the classification codes, normalised at ingestion.
	Codes ClassificationCodes

	// Enrichment outputs. Nil means "not enriched".
	Enriched          bool
	Cycle             Cycle
	MentionNormalized string
	MentionID         string
	Identity          *Resolution
	Enrollment        *EnrollmentEnrichment
	Occupational      *OccupationalEnrichment
	JobCodes          *JobCodeEnrichment
}

// EstablishmentCount returns the number of participations.
func (p *GroupedProgram) EstablishmentCount() int {
	return len(p.Establishments)
}

// String returns a program-level field as a string.
func (p *GroupedProgram) String(field string) string {
	s, _ := p.Fields[field].(string)
	return s
}

// Primary returns the first-listed establishment, if any.
func (p *GroupedProgram) Primary() (EstablishmentParticipation, bool) {
	if len(p.Establishments) == 0 {
		return EstablishmentParticipation{}, false
	}
	return p.Establishments[0], true
}
