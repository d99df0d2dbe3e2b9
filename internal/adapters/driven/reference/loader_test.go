package reference

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

const censusCSV = "\ufeffAnnée universitaire;etablissement_id_paysage_actuel;inf;DIPLOM;Discipline;Grande discipline;Dont femmes;Colonne ignorée\n" +
	"2022-23;pay1/pay2;P1;2500001.0;Informatique;Sciences;12;x\n" +
	"2023-24;pay1;;2500002;Chimie;Sciences;;y\n" +
	"2023-24;pay3;P3 / P4;2500003;\"Droit; public\";Droit;n/a;z\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func loaderFor(paths ...string) *Loader {
	settings := domain.DefaultPipelineSettings()
	settings.CensusPath, settings.OccupationalPath, settings.JobCodesPath = paths[0], paths[1], paths[2]
	return NewLoader(settings)
}

func TestLoadCensus(t *testing.T) {
	for name, data := range map[string][]byte{
		"sise.csv":    []byte(censusCSV),
		"sise.csv.gz": gzipped(t, censusCSV),
	} {
		t.Run(name, func(t *testing.T) {
			l := loaderFor(writeFile(t, name, data), "", "")

			rows, err := l.LoadCensus(context.Background())
			require.NoError(t, err)
			require.Len(t, rows, 3)

			first := rows[0]
			assert.Equal(t, "2022-23", first.Year)
			assert.Equal(t, []string{"pay1", "pay2"}, first.InstitutionCodes)
			assert.Equal(t, []string{"P1"}, first.ProgramIDs)
			assert.Equal(t, "2500001", first.ClassificationCode)
			assert.Equal(t, "Informatique", first.Attribute("discipline"))
			assert.Equal(t, "Sciences", first.Attribute("grande_discipline"))
			assert.Equal(t, 12, first.Attributes["dont_femmes"])
			assert.NotContains(t, first.Attributes, "Colonne ignorée")

			assert.Nil(t, rows[1].ProgramIDs)
			assert.Nil(t, rows[1].Attributes["dont_femmes"])

			assert.Equal(t, []string{"P3", "P4"}, rows[2].ProgramIDs)
			assert.Equal(t, "Droit; public", rows[2].Attribute("discipline"))
			assert.Equal(t, "n/a", rows[2].Attributes["dont_femmes"])
		})
	}
}

func TestLoadCensus_MissingColumn(t *testing.T) {
	l := loaderFor(writeFile(t, "sise.csv", []byte("Année universitaire;inf\n2023-24;P1\n")), "", "")

	_, err := l.LoadCensus(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadCensus_MissingFile(t *testing.T) {
	l := loaderFor(filepath.Join(t.TempDir(), "absent.csv"), "", "")

	_, err := l.LoadCensus(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyPathsDisableDatasets(t *testing.T) {
	l := loaderFor("", "", "")
	ctx := context.Background()

	rows, err := l.LoadCensus(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	occ, err := l.LoadOccupational(ctx)
	require.NoError(t, err)
	assert.Empty(t, occ)

	jobs, err := l.LoadJobCodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestLoadOccupational(t *testing.T) {
	t.Run("keyed object", func(t *testing.T) {
		path := writeFile(t, "rncp.json", []byte(`{
			"RNCP123": [{"rncp": "RNCP123", "type_emploi_accessibles": "Développeur"}],
			"2500001": [{"rncp": "RNCP9", "label": "Licence"}]
		}`))

		occ, err := loaderFor("", path, "").LoadOccupational(context.Background())
		require.NoError(t, err)

		require.Len(t, occ["RNCP123"], 1)
		assert.Equal(t, "Développeur", occ["RNCP123"][0].EmploymentTypes)
		assert.Equal(t, "RNCP123", occ["RNCP123"][0].Key)
		assert.Equal(t, "2500001", occ["2500001"][0].Key)
	})

	t.Run("flat list", func(t *testing.T) {
		path := writeFile(t, "rncp.json.gz", gzipped(t, `[
			{"rncp": "RNCP1"},
			{"key": "2500001", "rncp": "RNCP2"},
			{"label": "no key"}
		]`))

		occ, err := loaderFor("", path, "").LoadOccupational(context.Background())
		require.NoError(t, err)

		assert.Len(t, occ, 2)
		assert.Equal(t, "RNCP2", occ["2500001"][0].RNCP)
		assert.Equal(t, "RNCP1", occ["RNCP1"][0].Key)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, "rncp.json", []byte(`{"broken": [`))

		_, err := loaderFor("", path, "").LoadOccupational(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "rncp.json", []byte("  "))

		_, err := loaderFor("", path, "").LoadOccupational(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLoadJobCodes(t *testing.T) {
	path := writeFile(t, "rncp2rome.json", []byte(`{
		"RNCP123": [
			{"code_rome": "M1805", "id_level_1": "M", "level_1": "Support", "label": "Dev", "ogr": "38971"},
			{"code_rome": "M1810", "label": "Ops"}
		]
	}`))

	jobs, err := loaderFor("", "", path).LoadJobCodes(context.Background())
	require.NoError(t, err)

	require.Len(t, jobs["RNCP123"], 2)
	first := jobs["RNCP123"][0]
	assert.Equal(t, "M1805", first.Code)
	assert.Equal(t, "Support", first.Level1)
	assert.Equal(t, "38971", first.OGR)
	assert.Equal(t, "RNCP123", first.Key)
}

func TestNewLoader_ResolvesRelativePathsInDataDir(t *testing.T) {
	settings := domain.DefaultPipelineSettings()
	settings.DataDir = "/srv/fresq"
	settings.OccupationalPath = "/abs/rncp.json"
	settings.JobCodesPath = ""

	l := NewLoader(settings)
	assert.Equal(t, filepath.Join("/srv/fresq", "sise_latest.csv"), l.censusPath)
	assert.Equal(t, "/abs/rncp.json", l.occupationalPath)
	assert.Empty(t, l.jobCodesPath)
}
