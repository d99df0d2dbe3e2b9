package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupedProgram_Accessors(t *testing.T) {
	p := &GroupedProgram{
		NaturalID: "INF1",
		Fields:    map[string]any{FieldTitle: "Licence Droit", FieldDiplomaOrder: 3},
	}

	assert.Equal(t, "Licence Droit", p.String(FieldTitle))
	assert.Empty(t, p.String(FieldDiplomaOrder))
	assert.Equal(t, 0, p.EstablishmentCount())

	_, ok := p.Primary()
	assert.False(t, ok)

	p.Establishments = []EstablishmentParticipation{
		{Code: "A", Fields: map[string]any{FieldEstablishmentCode: "A"}},
		{Code: "B"},
	}
	primary, ok := p.Primary()
	assert.True(t, ok)
	assert.Equal(t, "A", primary.Code)
	assert.Equal(t, "A", primary.String(FieldEstablishmentCode))
	assert.Empty(t, p.Establishments[1].String(FieldEstablishmentCode))
	assert.Equal(t, 2, p.EstablishmentCount())
}

func TestRawRecord_String(t *testing.T) {
	assert.Empty(t, RawRecord{}.String(FieldNaturalID))
	assert.Equal(t, "INF1", RawRecord{Data: map[string]any{FieldNaturalID: "INF1"}}.String(FieldNaturalID))
}

func TestEnrollmentEnrichment_Matched(t *testing.T) {
	var nilEnr *EnrollmentEnrichment
	assert.False(t, nilEnr.Matched())
	assert.False(t, (&EnrollmentEnrichment{}).Matched())
	assert.True(t, (&EnrollmentEnrichment{All: EnrollmentMatch{Matched: true}}).Matched())
}

func TestAddress_IsEmpty(t *testing.T) {
	assert.True(t, Address{}.IsEmpty())
	assert.False(t, Address{City: "Lyon"}.IsEmpty())
}

func TestPipelineSettings_Defaults(t *testing.T) {
	d := DefaultPipelineSettings()
	assert.Equal(t, []string{"sanitise"}, d.PostProcessors)
	assert.Equal(t, "DIPLOM", d.CensusColumns.ClassificationCode)
	assert.False(t, d.Storage.Enabled())
	assert.Positive(t, d.Directory.RequestsPerSecond)
}
