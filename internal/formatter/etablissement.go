package formatter

import "github.com/custodia-labs/fresq/internal/core/domain"

// buildEtablissement projects one participation. Directory structures
// attached by resolution are registered as institution locations.
func buildEtablissement(e domain.EstablishmentParticipation, locations *Collector) domain.Etablissement {
	etab := domain.Etablissement{
		UAI:                   e.String(domain.FieldEstablishmentCode),
		Name:                  firstNonEmpty(e.String("nom_etablissement"), e.String("nom_commun_etablissement")),
		ShortName:             e.Fields["libelle_etablissement"],
		Sigle:                 e.Fields["sigle_etablissement"],
		Siret:                 e.Fields["siret_etablissement"],
		Nature:                e.Fields["nature_etablissement"],
		Sector:                e.String("secteur"),
		Status:                e.Fields["etat_etablissement"],
		JuridicalCategory:     e.Fields["categorie_judiciaire_etablissement"],
		Types:                 e.Fields["types_etablissement"],
		Groups:                e.Fields["groupes_etablissement"],
		SupervisoryMinistries: e.Fields["ministeres_tutelle"],
		Level:                 e.Fields["niveau_etablissement"],
		Wave:                  e.Fields["vague"],
		TypeDelivrance:        e.String("type_delivrance"),
		Coaccredited:          e.Fields["coaccreditations"],
		Academy:               e.String("academie"),
		Region:                e.String("region_academique"),
		LocationIDs:           []string{},
	}

	address := domain.Address{
		PostalCode: e.String("code_postal_etablissement"),
		City:       e.String("ville_etablissement"),
	}
	if !address.IsEmpty() {
		etab.Address = &address
	}

	if e.Resolution == nil || !e.Resolution.IsFound() {
		return etab
	}

	identity := e.Resolution.Identity
	method := string(identity.Method)

	if identity.Matched != nil {
		etab.PaysageElt = paysageInfo(identity.Matched, method)
		etab.LocationIDs = append(etab.LocationIDs, locations.AddFromStructure(*identity.Matched))
	}
	if identity.Resolved != nil && !sameStructure(identity.Matched, identity.Resolved) {
		etab.PaysageEltToUse = paysageInfo(identity.Resolved, method)
		etab.LocationIDs = append(etab.LocationIDs, locations.AddFromStructure(*identity.Resolved))
	}

	return etab
}

func paysageInfo(ref *domain.StructureRef, method string) *domain.PaysageInfo {
	if ref == nil {
		return nil
	}
	return &domain.PaysageInfo{
		ID:                 ref.ID,
		Name:               ref.Name,
		Geoloc:             optional(ref.Geoloc),
		UaiToPaysageMethod: optional(method),
	}
}

// sameStructure compares two structures by id and geoloc.
func sameStructure(a, b *domain.StructureRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Geoloc == b.Geoloc
}

// buildInstitution projects the program's own identity: the resolution of
// its first-listed establishment.
func buildInstitution(p *domain.GroupedProgram) *domain.InstitutionRef {
	if p.Identity == nil {
		return nil
	}
	primary, _ := p.Primary()

	res := p.Identity
	ref := &domain.InstitutionRef{
		Code:   primary.Code,
		Status: string(res.Status),
	}
	if res.IsAmbiguous() {
		ref.Candidates = make([]domain.PaysageInfo, 0, len(res.Candidates))
		for i := range res.Candidates {
			ref.Candidates = append(ref.Candidates, *paysageInfo(&res.Candidates[i], ""))
		}
		return ref
	}

	ref.Method = string(res.Identity.Method)
	ref.Paysage = paysageInfo(res.Identity.Resolved, ref.Method)
	return ref
}
