package formatter

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

var keywordDashes = regexp.MustCompile(`^-+\s*|\s*-+$`)

// buildEtape projects one etape and registers its sites.
func buildEtape(raw map[string]any, locations *Collector) domain.Etape {
	etape := domain.Etape{
		Infe:               str(raw, "inf_e"),
		Label:              str(raw, "intitule"),
		Level:              raw["niveau"],
		OpeningYear:        raw["annee_ouverture"],
		IsDiplomante:       flag(raw["ind_etape_diplomante"]),
		IsOpen:             flag(raw["ind_formation_ouverte"]),
		SiteIDs:            []string{},
		TeachingModalities: teachingModalities(raw),
	}

	// BUT etapes carry sites_details, masters carry sites.
	for _, field := range []string{"sites_details", "sites"} {
		for _, site := range maps(raw[field]) {
			id := locations.AddFromSite(site)
			if !slices.Contains(etape.SiteIDs, id) {
				etape.SiteIDs = append(etape.SiteIDs, id)
			}
		}
	}

	etape.PedagogicalInfo = pedagogicalInfo(raw)
	etape.RecruitmentInfo = recruitmentInfo(raw)
	etape.Capacity = capacity(raw)

	return etape
}

func teachingModalities(raw map[string]any) []domain.TeachingModality {
	out := []domain.TeachingModality{}
	seen := make(map[string]bool)
	for _, m := range maps(raw["modalite_enseignement_details"]) {
		code := str(m, "code")
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, domain.TeachingModality{
			Code:  code,
			Label: firstNonEmpty(str(m, "libelle"), code),
		})
	}
	return out
}

func pedagogicalInfo(raw map[string]any) *domain.PedagogicalInfo {
	ped, _ := raw["informations_pedagogiques"].(map[string]any)
	if len(ped) == 0 {
		return nil
	}

	info := &domain.PedagogicalInfo{
		Keywords:            presentOrNil(ped["mot_cle_libre"]),
		KeywordsDisciplines: keywords(ped, "mot_cle_disciplinaire_details"),
		KeywordsJobs:        keywords(ped, "mot_cle_metier_details"),
		KeywordsSectors:     keywords(ped, "mot_cle_sectoriel_details"),
		Languages:           presentOrNil(ped["langues_vivantes"]),
		TeachingLanguages:   presentOrNil(ped["langues_enseignement"]),
		FormationLink:       presentOrNil(ped["lien_fiche_formation"]),
		PedagogicalEmail:    presentOrNil(ped["email_contact_pedagogique"]),
		AdministrativeEmail: presentOrNil(ped["email_contact_administratif"]),
	}
	if info.Keywords == nil && info.Languages == nil && info.TeachingLanguages == nil &&
		info.FormationLink == nil && info.PedagogicalEmail == nil && info.AdministrativeEmail == nil &&
		len(info.KeywordsDisciplines) == 0 && len(info.KeywordsJobs) == 0 && len(info.KeywordsSectors) == 0 {
		return nil
	}
	return info
}

func recruitmentInfo(raw map[string]any) *domain.RecruitmentInfo {
	rec, _ := raw["modalite_recrutement"].(map[string]any)

	info := &domain.RecruitmentInfo{
		Expectations:        presentOrNil(rec["attendus"]),
		RecommendedDiplomas: distinctStrings(rec, "diplome_conseille_details", "intitule"),
		ExamCriteria:        presentOrNil(rec["criteres_generaux_examen"]),
		SelectionMethods:    distinctStrings(rec, "critere_examen_candidature_details", "libelle"),
	}
	if info.Expectations == nil && info.ExamCriteria == nil &&
		len(info.RecommendedDiplomas) == 0 && len(info.SelectionMethods) == 0 {
		return nil
	}
	return info
}

// capacity reads capacite_accueil.cal. Non-numeric values yield nil.
func capacity(raw map[string]any) *int {
	ca, _ := raw["capacite_accueil"].(map[string]any)
	switch n := ca["cal"].(type) {
	case float64:
		c := int(n)
		return &c
	case int:
		return &n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		c := int(f)
		return &c
	default:
		return nil
	}
}

// keywords extracts the distinct names of a keyword detail list with
// leading and trailing dashes stripped.
func keywords(ped map[string]any, field string) []string {
	var out []string
	for _, kw := range maps(ped[field]) {
		name, _ := kw["nom"].(string)
		name = strings.TrimSpace(keywordDashes.ReplaceAllString(name, ""))
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func distinctStrings(m map[string]any, field, key string) []string {
	var out []string
	for _, entry := range maps(m[field]) {
		v := str(entry, key)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// maps returns the map entries of a list value.
func maps(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func flag(v any) bool {
	b, _ := v.(bool)
	return b
}

// presentOrNil returns v unless it is nil, an empty string or an empty
// collection.
func presentOrNil(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
	case []any:
		if len(val) == 0 {
			return nil
		}
	case map[string]any:
		if len(val) == 0 {
			return nil
		}
	}
	return v
}
