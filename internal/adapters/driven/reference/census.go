package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

const (
	censusSeparator = ';'
	listSeparator   = "/"
)

// censusColumnNames maps census headers to attribute names. Unlisted
// columns are not kept.
var censusColumnNames = map[string]string{
	"Identifiant interne de l'établissement":  "identifiant_interne_etablissement",
	"etablissement_compos_id_paysage":         "etablissement_compos_id_paysage",
	"DEGETU":                                  "DEGETU",
	"Degré d’études":                          "degre_etudes",
	"Diplôme":                                 "diplome",
	"Niveau dans le diplôme":                  "niveau_dans_le_diplome",
	"Libellé du diplôme ou de la formation 2": "libelle_formation_2",
	"implantation_code_commune":               "implantation_code_commune",
	"Commune de l'unité d'inscription":        "commune_unite_inscription",
	"Sélection disciplinaire":                 "selection_disciplinaire",
	"GD_DISCISCIPLINE":                        "grande_discipline_code",
	"Grande discipline":                       "grande_discipline",
	"DISCIPLINE":                              "discipline_code",
	"Discipline":                              "discipline",
	"SECT_DISCIPLINAIRE":                      "secteur_disciplinaire_code",
	"Secteur disciplinaire":                   "secteur_disciplinaire",
	"Nombre d'étudiants inscrits (inscriptions principales) hors doubles inscriptions CPGE": "nb_etudiants_inscrits_principales_hors_doubles_inscriptions_cpge",
	"Dont femmes": "dont_femmes",
	"Dont hommes": "dont_hommes",
	"Nombre d'étudiants inscrits (inscriptions principales) y compris doubles inscriptions CPGE":                   "nb_etudiants_inscrits_principales_y_compris_doubles_inscriptions_cpge",
	"Nombre total d'étudiants inscrits (inscriptions principales et secondes) hors double inscription CPGE":        "nb_etudiants_inscrits_principales_secondes_hors_doubles_inscriptions_cpge",
	"Nombre total d'étudiants inscrits (inscriptions principales et secondes) y compris doubles inscriptions CPGE": "nb_etudiants_inscrits_principales_secondes_y_compris_doubles_inscriptions_cpge",
}

// countAttributes are parsed as integers when they hold one.
var countAttributes = map[string]bool{
	"dont_femmes": true,
	"dont_hommes": true,
	"nb_etudiants_inscrits_principales_hors_doubles_inscriptions_cpge":               true,
	"nb_etudiants_inscrits_principales_y_compris_doubles_inscriptions_cpge":          true,
	"nb_etudiants_inscrits_principales_secondes_hors_doubles_inscriptions_cpge":      true,
	"nb_etudiants_inscrits_principales_secondes_y_compris_doubles_inscriptions_cpge": true,
}

// LoadCensus reads the enrollment census in file order.
func (l *Loader) LoadCensus(ctx context.Context) ([]domain.CensusRow, error) {
	if l.censusPath == "" {
		return nil, nil
	}

	rc, err := open(l.censusPath)
	if err != nil {
		return nil, fmt.Errorf("opening census: %w", err)
	}
	defer rc.Close()

	rows, err := l.readCensus(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("reading census %s: %w", l.censusPath, err)
	}
	return rows, nil
}

//nolint:gocyclo // column mapping plus per-row parsing
func (l *Loader) readCensus(ctx context.Context, r io.Reader) ([]domain.CensusRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = censusSeparator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	required := []string{l.columns.Year, l.columns.InstitutionCodes, l.columns.ProgramIDs, l.columns.ClassificationCode}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidInput, col)
		}
	}

	// Attribute columns present in this file.
	attrs := make(map[int]string)
	for name, attr := range censusColumnNames {
		if i, ok := index[name]; ok {
			attrs[i] = attr
		}
	}

	var rows []domain.CensusRow
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := domain.CensusRow{
			Year:               field(l.columns.Year),
			InstitutionCodes:   splitList(field(l.columns.InstitutionCodes)),
			ProgramIDs:         splitList(field(l.columns.ProgramIDs)),
			ClassificationCode: strings.TrimSuffix(field(l.columns.ClassificationCode), ".0"),
			Attributes:         make(map[string]any, len(attrs)),
		}
		for i, attr := range attrs {
			if i >= len(record) {
				continue
			}
			row.Attributes[attr] = attributeValue(attr, strings.TrimSpace(record[i]))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// attributeValue parses counts as integers. Empty cells become nil so
// that documents drop them.
func attributeValue(attr, raw string) any {
	if raw == "" {
		return nil
	}
	if countAttributes[attr] {
		if n, err := strconv.Atoi(strings.TrimSuffix(raw, ".0")); err == nil {
			return n
		}
	}
	return raw
}
