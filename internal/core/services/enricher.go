package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
	"github.com/custodia-labs/fresq/internal/normalisers/text"
)

// titleSubstitutions canonicalise known misspellings in official titles.
var titleSubstitutions = map[string]string{
	"ingenieurie": "ingenierie",
}

// Census attributes aggregated per match.
const (
	attrDiscipline      = "discipline"
	attrDisciplineGroup = "grande_discipline"
	attrSector          = "secteur_disciplinaire"
)

// Enricher attaches derived and reference data to grouped programs.
// Lookup misses are recorded as statuses; only resolver failures abort.
type Enricher struct {
	resolver driving.InstitutionLookup
	ref      *ReferenceData
	faults   *FaultLog
}

// NewEnricher creates an enricher over a run's resolver and reference data.
func NewEnricher(resolver driving.InstitutionLookup, ref *ReferenceData, faults *FaultLog) *Enricher {
	return &Enricher{resolver: resolver, ref: ref, faults: faults}
}

// Enrich enriches the program in place and returns it.
func (e *Enricher) Enrich(ctx context.Context, p *domain.GroupedProgram) (*domain.GroupedProgram, error) {
	// 1. Cycle
	p.Cycle = ClassifyCycle(p.String(domain.FieldDiplomaCategory), p.String(domain.FieldDiplomaLabel))

	// 2. Normalised title
	e.normaliseTitle(p)

	// 3. Classification codes
	p.Codes = domain.ClassifyCodes(p.Codes.Raw)
	if len(p.Codes.Invalid) > 0 {
		e.faults.DataQuality(subsystemEnrichment, "invalid_code_sise",
			p.NaturalID, strings.Join(p.Codes.Invalid, "-"))
	}

	// 4. Institution identities
	if err := e.resolveEstablishments(ctx, p); err != nil {
		return nil, err
	}

	// 5. Enrollment census
	p.Enrollment = e.matchCensus(p)

	// 6-7. Occupational registry and job codes
	keys := lookupKeys(p)
	p.Occupational = e.matchOccupational(keys)
	p.JobCodes = e.matchJobCodes(keys)

	p.Enriched = true
	return p, nil
}

func (e *Enricher) normaliseTitle(p *domain.GroupedProgram) {
	title := p.String(domain.FieldTitle)
	if strings.TrimSpace(title) == "" {
		e.faults.DataQuality(subsystemEnrichment, "missing_title", p.NaturalID)
		return
	}

	tokens := text.Tokens(title)
	for i, tok := range tokens {
		if sub, ok := titleSubstitutions[tok]; ok {
			tokens[i] = sub
		}
	}
	p.MentionNormalized = text.TitleCase(strings.Join(tokens, " "))
	p.MentionID = strings.Join(tokens, "")
}

// resolveEstablishments resolves every real establishment code. The
// program's own identity is that of its first establishment.
func (e *Enricher) resolveEstablishments(ctx context.Context, p *domain.GroupedProgram) error {
	for i := range p.Establishments {
		est := &p.Establishments[i]
		if est.Synthetic {
			e.faults.DataQuality(subsystemEnrichment, "missing_uai", p.NaturalID, est.Code)
			continue
		}
		res, err := e.resolver.Resolve(ctx, est.Code)
		if err != nil {
			return fmt.Errorf("resolve %s for %s: %w", est.Code, p.NaturalID, err)
		}
		est.Resolution = &res
	}

	if primary, ok := p.Primary(); ok {
		p.Identity = primary.Resolution
	}
	return nil
}

// institutionCodes returns every code a census row may carry for the
// program's establishments: resolved ids, matched ids and raw codes.
func institutionCodes(p *domain.GroupedProgram) map[string]bool {
	codes := make(map[string]bool)
	for _, est := range p.Establishments {
		if est.Synthetic {
			continue
		}
		codes[est.Code] = true
		if est.Resolution == nil || est.Resolution.IsAmbiguous() {
			continue
		}
		id := est.Resolution.Identity
		if id.Resolved != nil {
			codes[id.Resolved.ID] = true
		}
		if id.Matched != nil {
			codes[id.Matched.ID] = true
		}
	}
	return codes
}

func (e *Enricher) matchCensus(p *domain.GroupedProgram) *domain.EnrollmentEnrichment {
	institutions := institutionCodes(p)
	enrollment := &domain.EnrollmentEnrichment{}

	var all []domain.CensusRow
	var allByID []bool
	for _, year := range e.ref.Years() {
		if len(institutions) == 0 {
			enrollment.Years = append(enrollment.Years, noMatch(year, domain.StatusNoInstitution))
			continue
		}
		rows, byID := e.filterCensus(p, year, institutions)
		enrollment.Years = append(enrollment.Years, e.buildMatch(p, year, rows, byID, true))
		all = append(all, rows...)
		allByID = append(allByID, byID...)
	}

	if len(institutions) == 0 {
		enrollment.All = noMatch(domain.EnrollmentAllYears, domain.StatusNoInstitution)
	} else {
		enrollment.All = e.buildMatch(p, domain.EnrollmentAllYears, all, allByID, false)
	}
	return enrollment
}

// filterCensus keeps the candidate rows of a year whose institution codes
// intersect the program's.
func (e *Enricher) filterCensus(p *domain.GroupedProgram, year string, institutions map[string]bool) ([]domain.CensusRow, []bool) {
	candidates, candidatesByID := e.ref.CensusCandidates(year, p.NaturalID, p.Codes.Valid)

	var rows []domain.CensusRow
	var byID []bool
	for i, row := range candidates {
		for _, code := range row.InstitutionCodes {
			if institutions[code] {
				rows = append(rows, row)
				byID = append(byID, candidatesByID[i])
				break
			}
		}
	}
	return rows, byID
}

func (e *Enricher) buildMatch(p *domain.GroupedProgram, year string, rows []domain.CensusRow, byID []bool, audit bool) domain.EnrollmentMatch {
	if len(rows) == 0 {
		return noMatch(year, domain.StatusNoMatch)
	}

	m := domain.EnrollmentMatch{
		Year:    year,
		Matched: true,
		Status:  domain.StatusMatched,
		Method:  domain.CensusMethodCode,
		Rows:    rows,
	}
	for _, id := range byID {
		if id {
			m.Method = domain.CensusMethodNaturalID
			break
		}
	}

	m.CodesFound = distinct(rows, func(r domain.CensusRow) string { return r.ClassificationCode })
	m.Disciplines = distinct(rows, func(r domain.CensusRow) string { return r.Attribute(attrDiscipline) })
	m.DisciplineGroups = distinct(rows, func(r domain.CensusRow) string { return r.Attribute(attrDisciplineGroup) })
	m.DisciplinarySectors = distinct(rows, func(r domain.CensusRow) string { return r.Attribute(attrSector) })

	if audit {
		e.auditMatch(p, year, m)
	}
	return m
}

// auditMatch logs multiple rows per code and institution, and multiple
// disciplines, for one census year.
func (e *Enricher) auditMatch(p *domain.GroupedProgram, year string, m domain.EnrollmentMatch) {
	perKey := make(map[string]int)
	var keys []string
	for _, row := range m.Rows {
		key := row.ClassificationCode + ";" + strings.Join(row.InstitutionCodes, "/")
		if perKey[key] == 0 {
			keys = append(keys, key)
		}
		perKey[key]++
	}
	for _, key := range keys {
		if perKey[key] > 1 {
			code, inst, _ := strings.Cut(key, ";")
			e.faults.DataQuality(subsystemCensus, "multiple_rows", p.NaturalID, code, inst, year)
		}
	}

	aggregates := []struct {
		attr   string
		values []string
	}{
		{attrDiscipline, m.Disciplines},
		{attrDisciplineGroup, m.DisciplineGroups},
		{attrSector, m.DisciplinarySectors},
	}
	for _, a := range aggregates {
		if len(a.values) > 1 {
			e.faults.DataQuality(subsystemCensus, "multiple_"+a.attr, p.NaturalID, strings.Join(m.CodesFound, "-"), year)
		}
	}
}

func noMatch(year, status string) domain.EnrollmentMatch {
	return domain.EnrollmentMatch{Year: year, Status: status, Rows: []domain.CensusRow{}}
}

func distinct(rows []domain.CensusRow, value func(domain.CensusRow) string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, r := range rows {
		v := value(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// lookupKeys returns the occupational lookup keys of a program: valid
// classification codes, then the RNCP number.
func lookupKeys(p *domain.GroupedProgram) []string {
	keys := make([]string, 0, len(p.Codes.Valid)+1)
	seen := make(map[string]bool)
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, code := range p.Codes.Valid {
		add(code)
	}
	add(p.String(domain.FieldRNCP))
	return keys
}

func (e *Enricher) matchOccupational(keys []string) *domain.OccupationalEnrichment {
	out := &domain.OccupationalEnrichment{Keys: keys, Records: []domain.OccupationalRecord{}}
	if len(keys) == 0 {
		out.Status = domain.StatusNoKey
		return out
	}
	for _, k := range keys {
		out.Records = append(out.Records, e.ref.Occupational(k)...)
	}
	out.Matched = len(out.Records) > 0
	out.Status = matchStatus(out.Matched)
	return out
}

func (e *Enricher) matchJobCodes(keys []string) *domain.JobCodeEnrichment {
	out := &domain.JobCodeEnrichment{Keys: keys, Codes: []domain.JobCode{}}
	if len(keys) == 0 {
		out.Status = domain.StatusNoKey
		return out
	}
	for _, k := range keys {
		out.Codes = append(out.Codes, e.ref.JobCodes(k)...)
	}
	out.Matched = len(out.Codes) > 0
	out.Status = matchStatus(out.Matched)
	return out
}

func matchStatus(matched bool) string {
	if matched {
		return domain.StatusMatched
	}
	return domain.StatusNoMatch
}
