package formatter

import "github.com/custodia-labs/fresq/internal/core/domain"

// buildParcours projects one diploma track. When the track names its
// diploma-granting etape, every cursus ends with it.
func buildParcours(raw map[string]any) domain.Parcours {
	parcours := domain.Parcours{
		Infp:         str(raw, "inf_p"),
		Label:        str(raw, "intitule"),
		Sigle:        raw["sigle"],
		RNCP:         raw[domain.FieldRNCP],
		CodeSise:     raw[domain.FieldClassification],
		OpeningYear:  raw["annee_ouverture"],
		IsDiplomante: true,
		IsOpen:       flag(raw["ind_formation_ouverte"]),
	}

	cursus, ok := raw["cursus"]
	if !ok {
		cursus = []any{[]any{}}
	}
	final := raw["etape_diplomante"]
	list, isList := cursus.([]any)
	if presentOrNil(final) == nil || !isList || len(list) == 0 {
		parcours.Cursus = cursus
		return parcours
	}

	withFinal := make([]any, 0, len(list))
	for _, c := range list {
		if path, ok := c.([]any); ok {
			extended := make([]any, 0, len(path)+1)
			extended = append(extended, path...)
			withFinal = append(withFinal, append(extended, final))
			continue
		}
		withFinal = append(withFinal, []any{c, final})
	}
	parcours.Cursus = withFinal
	return parcours
}
