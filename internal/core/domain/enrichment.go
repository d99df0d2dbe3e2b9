package domain

// EnrollmentAllYears is the key of the bucket aggregating every census year.
const EnrollmentAllYears = "all"

// Enrichment statuses recorded when a lookup yields nothing.
const (
	StatusMatched       = "matched"
	StatusNoMatch       = "no_match"
	StatusNoKey         = "no_key"
	StatusNoInstitution = "no_institution"
)

// Census match methods.
const (
	CensusMethodNaturalID = "inf"
	CensusMethodCode      = "code_sise"
)

// CensusRow is one row of the enrollment census.
type CensusRow struct {
	// Year is the academic year, e.g. "2023-24".
	Year string

	// InstitutionCodes is the slash-delimited institution column, split.
	InstitutionCodes []string

	// ProgramIDs is the slash-delimited program id column, split.
	ProgramIDs []string

	// ClassificationCode is the row's classification code.
	ClassificationCode string

	// Attributes holds the remaining mapped columns by their output name.
	Attributes map[string]any
}

// Attribute returns a mapped column as a string.
func (r CensusRow) Attribute(name string) string {
	s, _ := r.Attributes[name].(string)
	return s
}

// EnrollmentMatch is the census enrichment for one year bucket.
type EnrollmentMatch struct {
	Year    string
	Matched bool
	Status  string
	Method  string
	Rows    []CensusRow

	CodesFound          []string
	Disciplines         []string
	DisciplineGroups    []string
	DisciplinarySectors []string
}

// EnrollmentEnrichment holds census matches per year plus the all-years bucket.
type EnrollmentEnrichment struct {
	Years []EnrollmentMatch
	All   EnrollmentMatch
}

// Matched returns true if any year matched.
func (e *EnrollmentEnrichment) Matched() bool {
	return e != nil && e.All.Matched
}

// OccupationalRecord is one occupational-registry entry.
type OccupationalRecord struct {
	Key             string `json:"key"`
	RNCP            string `json:"rncp,omitempty"`
	Label           string `json:"label,omitempty"`
	EmploymentTypes string `json:"type_emploi_accessibles,omitempty"`
	Status          string `json:"etat_fiche,omitempty"`
}

// OccupationalEnrichment is the occupational-registry enrichment.
// Matched is false exactly when Records is empty.
type OccupationalEnrichment struct {
	Matched bool
	Status  string
	Keys    []string
	Records []OccupationalRecord
}

// JobCode is one job-code taxonomy entry.
type JobCode struct {
	Code     string `json:"code_rome"`
	IDLevel1 string `json:"id_level_1"`
	Level1   string `json:"level_1"`
	IDLevel2 string `json:"id_level_2"`
	Level2   string `json:"level_2"`
	Level3   string `json:"level_3"`
	Label    string `json:"label"`
	OGR      string `json:"ogr"`
	Key      string `json:"rncp,omitempty"`
}

// JobCodeEnrichment is the job-code enrichment.
// Matched is false exactly when Codes is empty.
type JobCodeEnrichment struct {
	Matched bool
	Status  string
	Keys    []string
	Codes   []JobCode
}
