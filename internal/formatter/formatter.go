// Package formatter projects enriched programs into canonical documents.
//
// Formatting is a pure projection: it performs no IO and never mutates the
// program. Each program gets its own location collector, so locations are
// deduplicated within a document and never shared across documents.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.DocumentFormatter = (*Formatter)(nil)

// Formatter builds canonical documents.
type Formatter struct{}

// New creates a document formatter.
func New() *Formatter {
	return &Formatter{}
}

// FormatDocument formats a program and returns its generic document form.
func (f *Formatter) FormatDocument(p *domain.GroupedProgram) (domain.Document, error) {
	formation, err := f.Format(p)
	if err != nil {
		return nil, err
	}
	return ToDocument(formation)
}

// Format projects a program into its canonical schema.
func (f *Formatter) Format(p *domain.GroupedProgram) (*domain.Formation, error) {
	if p == nil || p.NaturalID == "" {
		return nil, fmt.Errorf("%w: program without natural id", domain.ErrInvalidInput)
	}

	locations := NewCollector()
	details, _ := p.Fields[domain.FieldFormationDetails].(map[string]any)

	// 1. Establishments first: their directory locations lead the list.
	etablissements := make([]domain.Etablissement, 0, len(p.Establishments))
	for _, e := range p.Establishments {
		etablissements = append(etablissements, buildEtablissement(e, locations))
	}

	// 2. Etapes register their sites.
	etapes := []domain.Etape{}
	for _, raw := range maps(details["etapes_details"]) {
		etapes = append(etapes, buildEtape(raw, locations))
	}

	// 3. Parcours.
	parcours := []domain.Parcours{}
	for _, raw := range maps(details["parcours_diplomants_full"]) {
		parcours = append(parcours, buildParcours(raw))
	}

	doc := &domain.Formation{
		Inf:               p.NaturalID,
		Label:             p.String(domain.FieldTitle),
		MentionNormalized: p.MentionNormalized,
		MentionID:         p.MentionID,
		Cycle:             p.Cycle.String(),
		Diploma: domain.Diploma{
			Code:     p.String(domain.FieldDiplomaCode),
			Type:     p.String(domain.FieldDiplomaLabel),
			Category: p.String(domain.FieldDiplomaCategory),
			Order:    p.Fields[domain.FieldDiplomaOrder],
		},
		Accreditation: domain.Accreditation{
			StartDate:    optional(p.AccreditationStart),
			EndDate:      optional(p.AccreditationEnd),
			EndYears:     p.Fields["dates_fin_reconnaissance"],
			GradeEndDate: p.Fields["date_fin_grade"],
			VisaEndDate:  p.Fields["date_fin_visa"],
		},
		Domains:            p.Fields["domaines"],
		CodeSise:           p.Codes.Raw,
		RNCP:               p.Fields[domain.FieldRNCP],
		QualificationLevel: details["niveau_qualification"],
		TeachingModalities: p.Fields["modalites_enseignement"],
		HealthCycle:        p.Fields["cycle_sante"],
		HealthSpecialty:    p.Fields["specialite_sante"],
		EngineeringSpecs:   p.Fields["specialites_cti"],
		ButType:            p.Fields["type_parcours_but"],
		ButSpecialtySigle:  p.Fields["sigle_specialite_but"],
		DisciplinarySector: p.Fields["secteur_disciplinaire_sise"],
		Keywords:           p.Fields["mots_cles"],
		EstablishmentCount: p.EstablishmentCount(),
		Etablissements:     etablissements,
		Institution:        buildInstitution(p),
		Parcours:           parcours,
		Etapes:             etapes,
		Locations:          locations.All(),
		CollectionID:       optional(p.CollectionID),
		RecordID:           optional(p.RecordID),
		BucketID:           optional(p.BucketID),
		SourceID:           p.Fields["identifiant_source"],
	}

	if p.Enriched {
		doc.CodeSiseValid = nonNil(p.Codes.Valid)
		doc.CodeSiseInvalid = nonNil(p.Codes.Invalid)
	}
	projectEnrichment(doc, p)

	return doc, nil
}

// ToDocument converts a formatted value into the generic document form.
// Numbers are kept as json.Number so that integers survive unchanged.
func ToDocument(v any) (domain.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc domain.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// projectEnrichment fills the enrichment outputs. A match kind that was not
// run stays nil; one that ran without result gets a false flag and an
// empty list.
func projectEnrichment(doc *domain.Formation, p *domain.GroupedProgram) {
	if occ := p.Occupational; occ != nil {
		doc.HasRncpInfos = ptr(occ.Matched)
		doc.RncpInfos = make([]domain.RNCPInfo, 0, len(occ.Records))
		for _, r := range occ.Records {
			doc.RncpInfos = append(doc.RncpInfos, domain.RNCPInfo{
				RNCP:                  r.RNCP,
				Key:                   r.Key,
				Label:                 optional(r.Label),
				TypeEmploiAccessibles: optional(r.EmploymentTypes),
			})
		}
	}

	if jobs := p.JobCodes; jobs != nil {
		doc.HasRomeInfos = ptr(jobs.Matched)
		doc.RomeInfos = make([]domain.ROMEInfo, 0, len(jobs.Codes))
		for _, c := range jobs.Codes {
			doc.RomeInfos = append(doc.RomeInfos, domain.ROMEInfo{
				CodeRome: c.Code,
				IDLevel1: c.IDLevel1,
				Level1:   c.Level1,
				IDLevel2: c.IDLevel2,
				Level2:   c.Level2,
				Level3:   c.Level3,
				Label:    c.Label,
				OGR:      c.OGR,
				RNCP:     optional(c.Key),
			})
		}
	}

	if enr := p.Enrollment; enr != nil {
		doc.HasSiseInfos = ptr(enr.Matched())
		doc.SiseInfos = siseInfos(enr)
	}
}

func siseInfos(enr *domain.EnrollmentEnrichment) *domain.SiseInfos {
	all := enr.All
	matching := all.Status
	if all.Matched {
		matching = all.Method
	}

	infos := &domain.SiseInfos{
		Matching:            matching,
		CodesFound:          nonNil(all.CodesFound),
		Disciplines:         nonNil(all.Disciplines),
		DisciplineGroups:    nonNil(all.DisciplineGroups),
		DisciplinarySectors: nonNil(all.DisciplinarySectors),
		Years:               make([]domain.SiseYear, 0, len(enr.Years)),
	}
	for _, y := range enr.Years {
		year := domain.SiseYear{
			Year:    y.Year,
			Matched: y.Matched,
			Status:  y.Status,
			Method:  optional(y.Method),
			Rows:    make([]map[string]any, 0, len(y.Rows)),
		}
		for _, row := range y.Rows {
			year.Rows = append(year.Rows, censusRow(row))
		}
		infos.Years = append(infos.Years, year)
	}
	return infos
}

// censusRow projects a census row: its mapped attributes plus the key
// columns it was matched on.
func censusRow(row domain.CensusRow) map[string]any {
	out := make(map[string]any, len(row.Attributes)+4)
	for k, v := range row.Attributes {
		out[k] = v
	}
	out["annee_universitaire"] = row.Year
	out["etablissement_id_paysage"] = strings.Join(row.InstitutionCodes, "/")
	out["inf"] = strings.Join(row.ProgramIDs, "/")
	out["code_sise"] = row.ClassificationCode
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T {
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
