package domain

// Document is the generic form of a canonical document, as handed to
// post-processors and writers. Keys are the external camelCase names.
type Document map[string]any

// Formation is the canonical, search-indexable document of one program.
// Pointer and interface fields left nil are dropped by the sanitiser;
// non-nil empty slices survive as "enriched, no result".
type Formation struct {
	Inf               string `json:"inf"`
	Label             string `json:"label"`
	MentionNormalized string `json:"mentionNormalized"`
	MentionID         string `json:"mentionId"`
	Cycle             string `json:"cycle"`

	Diploma       Diploma       `json:"diploma"`
	Accreditation Accreditation `json:"accreditation"`

	Domains            any      `json:"domains"`
	CodeSise           []string `json:"codeSise"`
	CodeSiseValid      []string `json:"codeSiseValid"`
	CodeSiseInvalid    []string `json:"codeSiseInvalid"`
	RNCP               any      `json:"rncp"`
	QualificationLevel any      `json:"qualificationLevel"`
	TeachingModalities any      `json:"teachingModalities"`
	HealthCycle        any      `json:"healthCycle"`
	HealthSpecialty    any      `json:"healthSpecialty"`
	EngineeringSpecs   any      `json:"engineeringSpecialties"`
	ButType            any      `json:"butType"`
	ButSpecialtySigle  any      `json:"butSpecialtySigle"`
	DisciplinarySector any      `json:"disciplinarySector"`
	Keywords           any      `json:"keywords"`

	EstablishmentCount int             `json:"establishmentCount"`
	Etablissements     []Etablissement `json:"etablissements"`
	Institution        *InstitutionRef `json:"institution"`
	Parcours           []Parcours      `json:"parcours"`
	Etapes             []Etape         `json:"etapes"`
	Locations          []Location      `json:"locations"`

	CollectionID *string `json:"collectionId"`
	RecordID     *string `json:"recordId"`
	BucketID     *string `json:"bucketId"`
	SourceID     any     `json:"sourceId"`

	// Enrichment outputs. Nil flags and lists mean "not enriched".
	HasRncpInfos *bool      `json:"hasRncpInfos"`
	RncpInfos    []RNCPInfo `json:"rncpInfos"`
	HasRomeInfos *bool      `json:"hasRomeInfos"`
	RomeInfos    []ROMEInfo `json:"romeInfos"`
	HasSiseInfos *bool      `json:"hasSiseInfos"`
	SiseInfos    *SiseInfos `json:"siseInfos"`
}

// Diploma describes the diploma type of a program.
type Diploma struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Order    any    `json:"order"`
}

// Accreditation is the accreditation window of a program.
type Accreditation struct {
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	EndYears     any     `json:"endYears"`
	GradeEndDate any     `json:"gradeEndDate"`
	VisaEndDate  any     `json:"visaEndDate"`
}

// InstitutionRef is the program's own canonical institution identity.
type InstitutionRef struct {
	Code       string        `json:"uai"`
	Status     string        `json:"status"`
	Method     string        `json:"uaiToPaysageMethod,omitempty"`
	Paysage    *PaysageInfo  `json:"paysage"`
	Candidates []PaysageInfo `json:"candidates"`
}

// PaysageInfo is a directory structure as projected in documents.
type PaysageInfo struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Geoloc             *string `json:"geoloc"`
	UaiToPaysageMethod *string `json:"uaiToPaysageMethod"`
}

// Etablissement is one establishment offering the program.
type Etablissement struct {
	UAI                   string       `json:"uai"`
	Name                  string       `json:"name"`
	ShortName             any          `json:"shortName"`
	Sigle                 any          `json:"sigle"`
	Siret                 any          `json:"siret"`
	Nature                any          `json:"nature"`
	Sector                string       `json:"sector"`
	Status                any          `json:"status"`
	JuridicalCategory     any          `json:"juridicalCategory"`
	Types                 any          `json:"types"`
	Groups                any          `json:"groups"`
	SupervisoryMinistries any          `json:"supervisoryMinistries"`
	Level                 any          `json:"level"`
	Wave                  any          `json:"wave"`
	Address               *Address     `json:"address"`
	TypeDelivrance        string       `json:"typeDelivrance"`
	Coaccredited          any          `json:"coaccredited"`
	Academy               string       `json:"academy"`
	Region                string       `json:"region"`
	LocationIDs           []string     `json:"locationIds"`
	PaysageElt            *PaysageInfo `json:"paysageElt"`
	PaysageEltToUse       *PaysageInfo `json:"paysageEltToUse"`
}

// TeachingModality is a coded teaching modality.
type TeachingModality struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// PedagogicalInfo groups an etape's pedagogical details.
type PedagogicalInfo struct {
	Keywords            any      `json:"keywords"`
	KeywordsDisciplines []string `json:"keywordsDisciplines,omitempty"`
	KeywordsJobs        []string `json:"keywordsJobs,omitempty"`
	KeywordsSectors     []string `json:"keywordsSectors,omitempty"`
	Languages           any      `json:"languages"`
	TeachingLanguages   any      `json:"teachingLanguages"`
	FormationLink       any      `json:"formationLink"`
	PedagogicalEmail    any      `json:"pedagogicalEmail"`
	AdministrativeEmail any      `json:"administrativeEmail"`
}

// RecruitmentInfo groups an etape's recruitment details.
type RecruitmentInfo struct {
	Expectations        any      `json:"expectations"`
	RecommendedDiplomas []string `json:"recommendedDiplomas,omitempty"`
	ExamCriteria        any      `json:"examCriteria"`
	SelectionMethods    []string `json:"selectionMethods,omitempty"`
}

// Etape is one step of a program.
type Etape struct {
	Infe               string             `json:"infe"`
	Label              string             `json:"label"`
	Level              any                `json:"level"`
	OpeningYear        any                `json:"openingYear"`
	IsDiplomante       bool               `json:"isDiplomante"`
	IsOpen             bool               `json:"isOpen"`
	SiteIDs            []string           `json:"siteIds"`
	TeachingModalities []TeachingModality `json:"teachingModalities"`
	PedagogicalInfo    *PedagogicalInfo   `json:"pedagogicalInfo"`
	RecruitmentInfo    *RecruitmentInfo   `json:"recruitmentInfo"`
	Capacity           *int               `json:"capacity"`
}

// Parcours is one diploma track of a program.
type Parcours struct {
	Infp         string `json:"infp"`
	Label        string `json:"label"`
	Sigle        any    `json:"sigle"`
	RNCP         any    `json:"rncp"`
	CodeSise     any    `json:"codeSise"`
	OpeningYear  any    `json:"openingYear"`
	IsDiplomante bool   `json:"isDiplomante"`
	IsOpen       bool   `json:"isOpen"`
	Cursus       any    `json:"cursus"`
}

// RNCPInfo is an occupational-registry match as projected in documents.
type RNCPInfo struct {
	RNCP                  string  `json:"rncp"`
	Key                   string  `json:"key"`
	Label                 *string `json:"label"`
	TypeEmploiAccessibles *string `json:"typeEmploiAccessibles"`
}

// ROMEInfo is a job-code match as projected in documents.
type ROMEInfo struct {
	CodeRome string  `json:"codeRome"`
	IDLevel1 string  `json:"idLevel1"`
	Level1   string  `json:"level1"`
	IDLevel2 string  `json:"idLevel2"`
	Level2   string  `json:"level2"`
	Level3   string  `json:"level3"`
	Label    string  `json:"label"`
	OGR      string  `json:"ogr"`
	RNCP     *string `json:"rncp"`
}

// SiseInfos is the enrollment-census enrichment as projected in documents.
type SiseInfos struct {
	Matching            string     `json:"matching"`
	CodesFound          []string   `json:"codesFound"`
	Disciplines         []string   `json:"disciplines"`
	DisciplineGroups    []string   `json:"disciplineGroups"`
	DisciplinarySectors []string   `json:"disciplinarySectors"`
	Years               []SiseYear `json:"years"`
}

// SiseYear is one census year bucket as projected in documents.
type SiseYear struct {
	Year    string           `json:"year"`
	Matched bool             `json:"matched"`
	Status  string           `json:"status"`
	Method  *string          `json:"method"`
	Rows    []map[string]any `json:"rows"`
}
