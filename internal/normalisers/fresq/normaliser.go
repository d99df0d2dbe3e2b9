// Package fresq normalises harvested FRESQ payloads before grouping.
//
// Etapes carry their linked referential entries under a "references" map
// keyed by arbitrary names (e.g. "sites_3", "mot_cle_metier_12"). The
// normaliser folds them into typed *_details lists so that formatting
// reads one shape.
package fresq

import (
	"cmp"
	"slices"
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

const rawKeyField = "raw_key_from_fresq"

// Single-valued references copied as <name>_details.
var singleReferences = []string{"uai_iut", "uai_parent"}

// List references folded at the etape level.
var etapeListReferences = []string{"sites", "modalite_enseignement"}

// List references folded into informations_pedagogiques.
var pedagogicalReferences = []string{"mot_cle_sectoriel", "mot_cle_disciplinaire", "mot_cle_metier"}

// List references folded into modalite_recrutement.
var recruitmentReferences = []string{"diplome_conseille", "critere_examen_candidature"}

// Normaliser folds etape references into detail lists.
type Normaliser struct{}

// New creates a FRESQ payload normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise rewrites the record's etapes in place and returns the number
// of etapes that carried references.
func (n *Normaliser) Normalise(rec *domain.RawRecord) int {
	if rec == nil || rec.Data == nil {
		return 0
	}
	details, ok := rec.Data[domain.FieldFormationDetails].(map[string]any)
	if !ok {
		return 0
	}
	etapes, ok := details["etapes_details"].([]any)
	if !ok {
		return 0
	}

	count := 0
	for _, e := range etapes {
		etape, ok := e.(map[string]any)
		if !ok {
			continue
		}
		refs, ok := etape["references"].(map[string]any)
		if !ok {
			continue
		}
		foldReferences(etape, refs)
		delete(etape, "references")
		count++
	}
	return count
}

func foldReferences(etape, refs map[string]any) {
	for _, name := range singleReferences {
		if ref, ok := refs[name].(map[string]any); ok {
			if data, ok := ref["data"]; ok {
				etape[name+"_details"] = data
			}
		}
	}

	for _, name := range etapeListReferences {
		if list := listData(refs, name); len(list) > 0 {
			etape[name+"_details"] = list
		}
	}

	mergeInto(etape, "informations_pedagogiques", refs, pedagogicalReferences)
	mergeInto(etape, "modalite_recrutement", refs, recruitmentReferences)
}

// mergeInto adds <name>_details lists to the sub-map etape[field],
// keeping whatever the sub-map already holds.
func mergeInto(etape map[string]any, field string, refs map[string]any, names []string) {
	sub, _ := etape[field].(map[string]any)
	if sub == nil {
		sub = make(map[string]any)
	}
	for _, name := range names {
		if list := listData(refs, name); len(list) > 0 {
			sub[name+"_details"] = list
		}
	}
	etape[field] = sub
}

// listData collects the data of every reference whose key contains name,
// in key order, tagging each entry with its original key.
func listData(refs map[string]any, name string) []any {
	keys := make([]string, 0, len(refs))
	for k := range refs {
		if strings.Contains(k, name) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, compareKeys)

	var out []any
	for _, k := range keys {
		ref, ok := refs[k].(map[string]any)
		if !ok {
			continue
		}
		data, ok := ref["data"].(map[string]any)
		if !ok {
			continue
		}
		entry := map[string]any{rawKeyField: k}
		for f, v := range data {
			entry[f] = v
		}
		out = append(out, entry)
	}
	return out
}

// compareKeys orders reference keys by name, then by numeric suffix, so
// that "sites_2" comes before "sites_10".
func compareKeys(a, b string) int {
	nameA, numA := splitIndex(a)
	nameB, numB := splitIndex(b)
	if c := cmp.Compare(nameA, nameB); c != 0 {
		return c
	}
	numA = strings.TrimLeft(numA, "0")
	numB = strings.TrimLeft(numB, "0")
	if c := cmp.Compare(len(numA), len(numB)); c != 0 {
		return c
	}
	if c := cmp.Compare(numA, numB); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

func splitIndex(key string) (name, index string) {
	i := len(key)
	for i > 0 && key[i-1] >= '0' && key[i-1] <= '9' {
		i--
	}
	return key[:i], key[i:]
}
