package services

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/logger"
)

// programLevelFields must agree across all rows of a program.
var programLevelFields = []string{
	domain.FieldTitle,
	domain.FieldDiplomaCode,
	domain.FieldDiplomaLabel,
	domain.FieldDiplomaCategory,
	domain.FieldAccreditStart,
	domain.FieldAccreditEnd,
	domain.FieldClassification,
	domain.FieldRNCP,
}

// establishmentSubstring selects establishment-scoped fields by name, so
// that new establishment fields from the registry flow through unchanged.
const establishmentSubstring = "_etablissement"

// establishmentFields are establishment-scoped fields without the suffix.
var establishmentFields = map[string]bool{
	"secteur":            true,
	"academie":           true,
	"region_academique":  true,
	"type_delivrance":    true,
	"vague":              true,
	"ministeres_tutelle": true,
	"geolocalisations":   true,
	"coaccreditations":   true,
}

// IsEstablishmentField reports whether a payload field belongs to the
// establishment rather than to the program.
func IsEstablishmentField(name string) bool {
	return strings.Contains(name, establishmentSubstring) || establishmentFields[name]
}

// Grouper partitions raw rows into one GroupedProgram per natural id.
type Grouper struct {
	faults *FaultLog
	strict bool
}

// NewGrouper creates a grouper. When strict is set, a program-level field
// mismatch aborts grouping instead of being logged.
func NewGrouper(faults *FaultLog, strict bool) *Grouper {
	return &Grouper{faults: faults, strict: strict}
}

// Group builds programs in first-seen order. Establishments keep input
// order, and the first row's value wins on conflicting program fields.
func (g *Grouper) Group(records []domain.RawRecord) ([]*domain.GroupedProgram, error) {
	defer logger.Timed("grouping")()

	var programs []*domain.GroupedProgram
	byID := make(map[string]*domain.GroupedProgram)
	absent := make(map[string]int)

	for i, rec := range records {
		id := g.naturalID(rec, i)

		program, seen := byID[id]
		if !seen {
			program = newProgram(id, rec)
			byID[id] = program
			programs = append(programs, program)
		} else if err := g.mergeProgramFields(program, rec); err != nil {
			return nil, err
		}

		program.Establishments = append(program.Establishments, participation(rec, i, id, absent))
		widenAccreditation(program, rec)
	}

	logger.Info("Grouped %d rows into %d programs", len(records), len(programs))
	return programs, nil
}

// naturalID returns the row's natural id, or a per-row placeholder when it
// is missing or malformed.
func (g *Grouper) naturalID(rec domain.RawRecord, index int) string {
	row := fmt.Sprint(index)
	placeholder := "inf_absent_" + row

	if rec.Data == nil {
		g.faults.Structural(subsystemGrouping, "missing_data", row)
		return placeholder
	}
	raw, ok := rec.Data[domain.FieldNaturalID]
	if !ok || raw == nil {
		g.faults.Structural(subsystemGrouping, "missing_inf", row)
		return placeholder
	}
	id, ok := raw.(string)
	id = strings.TrimSpace(id)
	if !ok || id == "" || strings.ContainsAny(id, " \t\n") {
		g.faults.Structural(subsystemGrouping, "malformed_inf", row, fmt.Sprint(raw))
		return placeholder
	}
	return id
}

func newProgram(id string, rec domain.RawRecord) *domain.GroupedProgram {
	fields := make(map[string]any, len(rec.Data))
	for k, v := range rec.Data {
		if !IsEstablishmentField(k) {
			fields[k] = v
		}
	}

	return &domain.GroupedProgram{
		NaturalID:          id,
		Fields:             fields,
		RecordID:           rec.RecordID,
		CollectionID:       rec.CollectionID,
		BucketID:           rec.BucketID,
		AccreditationStart: rec.String(domain.FieldAccreditStart),
		AccreditationEnd:   rec.String(domain.FieldAccreditEnd),
		Codes: domain.ClassificationCodes{
			Raw: domain.ParseCodeList(rec.Data[domain.FieldClassification]),
		},
	}
}

// mergeProgramFields checks the declared program-level fields of a later
// row against the program's values. A value missing from the first rows is
// taken from the first row that carries it.
func (g *Grouper) mergeProgramFields(program *domain.GroupedProgram, rec domain.RawRecord) error {
	for _, field := range programLevelFields {
		other := rec.Data[field]
		if other == nil {
			continue
		}
		first := program.Fields[field]
		if first == nil {
			adoptField(program, field, other)
			g.faults.DataQuality(subsystemGrouping, "field_missing",
				program.NaturalID, field, fmt.Sprint(other))
			continue
		}
		if sameFieldValue(field, first, other) {
			continue
		}

		if g.strict {
			return fmt.Errorf("%w: program %s field %s: %v != %v",
				domain.ErrGroupingInvariant, program.NaturalID, field, first, other)
		}
		g.faults.DataQuality(subsystemGrouping, "field_mismatch",
			program.NaturalID, field, fmt.Sprint(first), fmt.Sprint(other))
	}
	return nil
}

func adoptField(program *domain.GroupedProgram, field string, v any) {
	program.Fields[field] = v
	if field == domain.FieldClassification {
		program.Codes.Raw = domain.ParseCodeList(v)
	}
}

// sameFieldValue compares two values of a field. Classification codes are
// compared by their tokens, since they arrive as a string or a list.
func sameFieldValue(field string, a, b any) bool {
	if field != domain.FieldClassification {
		return reflect.DeepEqual(a, b)
	}
	ca := domain.ClassifyCodes(domain.ParseCodeList(a))
	cb := domain.ClassifyCodes(domain.ParseCodeList(b))
	return slices.Equal(ca.Valid, cb.Valid) && slices.Equal(ca.Invalid, cb.Invalid)
}

// participation extracts the establishment-scoped fields of a row.
func participation(rec domain.RawRecord, index int, id string, absent map[string]int) domain.EstablishmentParticipation {
	fields := make(map[string]any)
	for k, v := range rec.Data {
		if !IsEstablishmentField(k) {
			continue
		}
		if list, ok := v.([]any); ok {
			v = dedupValues(list)
		}
		fields[k] = v
	}

	p := domain.EstablishmentParticipation{
		Code:     strings.TrimSpace(rec.String(domain.FieldEstablishmentCode)),
		RowIndex: index,
		Fields:   fields,
	}
	if p.Code == "" {
		absent[id]++
		p.Code = fmt.Sprintf("uai_absent_%d", absent[id])
		p.Synthetic = true
	}
	return p
}

// dedupValues removes repeated list entries, keeping first occurrences.
func dedupValues(list []any) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		dup := false
		for _, kept := range out {
			if reflect.DeepEqual(item, kept) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out
}

// widenAccreditation keeps the earliest start and latest end dates.
// Dates are ISO formatted, so they compare as strings.
func widenAccreditation(program *domain.GroupedProgram, rec domain.RawRecord) {
	if start := rec.String(domain.FieldAccreditStart); start != "" {
		if program.AccreditationStart == "" || start < program.AccreditationStart {
			program.AccreditationStart = start
		}
	}
	if end := rec.String(domain.FieldAccreditEnd); end != "" {
		if end > program.AccreditationEnd {
			program.AccreditationEnd = end
		}
	}
}
