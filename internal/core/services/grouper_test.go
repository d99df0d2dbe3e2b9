package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

func TestGroup_SameTitleTwoEstablishments(t *testing.T) {
	faults := NewFaultLog()
	records := []domain.RawRecord{
		row("P1", "E1", "intitule_officiel", "Master Chimie"),
		row("P1", "E2", "intitule_officiel", "Master Chimie"),
	}

	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)

	require.Len(t, programs, 1)
	assert.Equal(t, "P1", programs[0].NaturalID)
	assert.Equal(t, 2, programs[0].EstablishmentCount())
	assert.Equal(t, "E1", programs[0].Establishments[0].Code)
	assert.Equal(t, "E2", programs[0].Establishments[1].Code)
	assert.Zero(t, faults.Len())
}

func TestGroup_DifferentTitlesFirstWins(t *testing.T) {
	faults := NewFaultLog()
	records := []domain.RawRecord{
		row("P1", "E1", "intitule_officiel", "Master Chimie"),
		row("P1", "E2", "intitule_officiel", "Master Chimie verte"),
	}

	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)

	require.Len(t, programs, 1)
	assert.Equal(t, "Master Chimie", programs[0].String(domain.FieldTitle))

	got := faults.Faults()
	require.Len(t, got, 1)
	assert.Equal(t, domain.FaultDataQuality, got[0].Category)
	assert.Equal(t,
		"data_quality;grouping;field_mismatch;P1;intitule_officiel;Master Chimie;Master Chimie verte",
		got[0].String())
}

func TestGroup_StrictMismatchAborts(t *testing.T) {
	records := []domain.RawRecord{
		row("P1", "E1", "code_sise", "2500123"),
		row("P1", "E2", "code_sise", "2500124"),
	}

	_, err := NewGrouper(NewFaultLog(), true).Group(records)
	assert.ErrorIs(t, err, domain.ErrGroupingInvariant)
}

func TestGroup_IsPartition(t *testing.T) {
	var records []domain.RawRecord
	for i := 0; i < 30; i++ {
		uai := fmt.Sprintf("E%d", i%4)
		if i%7 == 0 {
			uai = ""
		}
		records = append(records, row(fmt.Sprintf("P%d", i%5), uai))
	}
	records = append(records, domain.RawRecord{Data: map[string]any{"uai_etablissement": "E9"}})

	programs, err := NewGrouper(NewFaultLog(), false).Group(records)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, p := range programs {
		for _, est := range p.Establishments {
			seen[est.RowIndex]++
		}
	}
	require.Len(t, seen, len(records))
	for i := range records {
		assert.Equal(t, 1, seen[i], "row %d", i)
	}
}

func TestGroup_Deterministic(t *testing.T) {
	records := []domain.RawRecord{
		row("P1", "E1", "intitule_officiel", "A", "num_rncp", "RNCP1"),
		row("P2", "E1", "intitule_officiel", "X"),
		row("P1", "E2", "intitule_officiel", "B", "num_rncp", "RNCP2"),
		row("P1", "E3", "intitule_officiel", "C"),
	}

	first, err := NewGrouper(NewFaultLog(), false).Group(records)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := NewGrouper(NewFaultLog(), false).Group(records)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].NaturalID, again[j].NaturalID)
			assert.Equal(t, first[j].Fields, again[j].Fields)
		}
	}
	assert.Equal(t, "A", first[0].String(domain.FieldTitle))
	assert.Equal(t, "RNCP1", first[0].String(domain.FieldRNCP))
}

func TestGroup_MissingEstablishmentCode(t *testing.T) {
	records := []domain.RawRecord{
		row("P1", ""),
		row("P1", "E1"),
		row("P1", ""),
		row("P2", ""),
	}

	programs, err := NewGrouper(NewFaultLog(), false).Group(records)
	require.NoError(t, err)
	require.Len(t, programs, 2)

	codes := []string{}
	for _, est := range programs[0].Establishments {
		codes = append(codes, est.Code)
	}
	assert.Equal(t, []string{"uai_absent_1", "E1", "uai_absent_2"}, codes)
	assert.True(t, programs[0].Establishments[0].Synthetic)
	assert.False(t, programs[0].Establishments[1].Synthetic)
	assert.Equal(t, "uai_absent_1", programs[1].Establishments[0].Code)
}

func TestGroup_MissingNaturalID(t *testing.T) {
	faults := NewFaultLog()
	records := []domain.RawRecord{
		row("", "E1"),
		row("P1", "E1"),
		{Data: map[string]any{"inf": 42.0, "uai_etablissement": "E2"}},
		{},
	}

	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)

	ids := []string{}
	for _, p := range programs {
		ids = append(ids, p.NaturalID)
	}
	assert.Equal(t, []string{"inf_absent_0", "P1", "inf_absent_2", "inf_absent_3"}, ids)
	assert.Equal(t, []string{"missing_inf", "malformed_inf", "missing_data"}, faultReasons(faults))
	for _, f := range faults.Faults() {
		assert.Equal(t, domain.FaultStructural, f.Category)
	}
}

func TestGroup_EstablishmentFields(t *testing.T) {
	geo := map[string]any{"site_uai": "E1", "lat": 48.8}
	records := []domain.RawRecord{
		row("P1", "E1",
			"nom_etablissement", "Université A",
			"secteur", "public",
			"academie", "Paris",
			"geolocalisations", []any{geo, geo, map[string]any{"site_uai": "E1b"}},
			"intitule_officiel", "Master",
			"mots_cles", []any{"chimie"},
		),
	}

	programs, err := NewGrouper(NewFaultLog(), false).Group(records)
	require.NoError(t, err)

	est := programs[0].Establishments[0]
	assert.Equal(t, "Université A", est.String("nom_etablissement"))
	assert.Equal(t, "public", est.String("secteur"))
	assert.Len(t, est.Fields["geolocalisations"], 2)
	assert.NotContains(t, est.Fields, "intitule_officiel")
	assert.NotContains(t, est.Fields, "mots_cles")

	assert.Contains(t, programs[0].Fields, "mots_cles")
	assert.NotContains(t, programs[0].Fields, "secteur")
	assert.NotContains(t, programs[0].Fields, "nom_etablissement")
}

func TestGroup_AccreditationWindow(t *testing.T) {
	faults := NewFaultLog()
	records := []domain.RawRecord{
		row("P1", "E1", "date_debut_accreditation", "2021-09-01", "date_fin_accreditation", "2026-08-31"),
		row("P1", "E2", "date_debut_accreditation", "2020-09-01", "date_fin_accreditation", "2025-08-31"),
		row("P1", "E3", "date_fin_accreditation", "2027-08-31"),
	}

	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)

	assert.Equal(t, "2020-09-01", programs[0].AccreditationStart)
	assert.Equal(t, "2027-08-31", programs[0].AccreditationEnd)
	assert.Equal(t, 3, faults.Len(), "mismatching dates are still reported")
}

func TestGroup_ClassificationStringAndListAgree(t *testing.T) {
	records := []domain.RawRecord{
		row("P1", "E1", "code_sise", "2500123"),
		row("P1", "E2", "code_sise", []any{"2500123"}),
		row("P1", "E3", "code_sise", "2500123.0"),
	}

	faults := NewFaultLog()
	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Zero(t, faults.Len())

	_, err = NewGrouper(NewFaultLog(), true).Group(records)
	assert.NoError(t, err)
}

func TestGroup_LaterValueFillsMissingField(t *testing.T) {
	faults := NewFaultLog()
	records := []domain.RawRecord{
		row("P1", "E1"),
		row("P1", "E2", "intitule_officiel", "Master Chimie", "code_sise", "2500123"),
		row("P1", "E3", "intitule_officiel", "Master Chimie verte"),
	}

	programs, err := NewGrouper(faults, false).Group(records)
	require.NoError(t, err)
	require.Len(t, programs, 1)

	assert.Equal(t, "Master Chimie", programs[0].String(domain.FieldTitle))
	assert.Equal(t, []string{"2500123"}, programs[0].Codes.Raw)
	assert.Equal(t, []string{"field_missing", "field_missing", "field_mismatch"}, faultReasons(faults))
	assert.Equal(t,
		"data_quality;grouping;field_missing;P1;intitule_officiel;Master Chimie",
		faults.Faults()[0].String())
}

func TestGroup_ClassificationCodesNormalised(t *testing.T) {
	programs, err := NewGrouper(NewFaultLog(), false).Group([]domain.RawRecord{
		row("P1", "E1", "code_sise", []any{"2500123", 2500124.0}),
		row("P2", "E1", "code_sise", "2500125"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2500123", "2500124"}, programs[0].Codes.Raw)
	assert.Equal(t, []string{"2500125"}, programs[1].Codes.Raw)
}

func TestIsEstablishmentField(t *testing.T) {
	assert.True(t, IsEstablishmentField("uai_etablissement"))
	assert.True(t, IsEstablishmentField("nouveau_champ_etablissement"))
	assert.True(t, IsEstablishmentField("coaccreditations"))
	assert.False(t, IsEstablishmentField("intitule_officiel"))
	assert.False(t, IsEstablishmentField("secteur_disciplinaire_sise"))
}
