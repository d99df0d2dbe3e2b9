package domain

// RawRecord is one harvested row: a (program, establishment) pair.
// It is the raw source's output before grouping.
type RawRecord struct {
	// RecordID is the registry's record identifier, if present.
	RecordID string `json:"recordId,omitempty"`

	// CollectionID is the registry collection the record belongs to.
	CollectionID string `json:"collectionId,omitempty"`

	// BucketID is the storage bucket of the record's attachments.
	BucketID string `json:"bucketId,omitempty"`

	// Data is the source payload. Field names are the registry's own.
	Data map[string]any `json:"data"`
}

// Raw payload field names used by the pipeline.
const (
	FieldNaturalID         = "inf"
	FieldEstablishmentCode = "uai_etablissement"
	FieldClassification    = "code_sise"
	FieldTitle             = "intitule_officiel"
	FieldDiplomaCode       = "code_type_diplome"
	FieldDiplomaLabel      = "libelle_type_diplome"
	FieldDiplomaCategory   = "categorie_type_diplome"
	FieldDiplomaOrder      = "ordre_type_diplome"
	FieldAccreditStart     = "date_debut_accreditation"
	FieldAccreditEnd       = "date_fin_accreditation"
	FieldRNCP              = "num_rncp"
	FieldFormationDetails  = "formation_details"
)

// String returns a payload field as a string.
// Non-string values yield the empty string.
func (r RawRecord) String(field string) string {
	if r.Data == nil {
		return ""
	}
	s, _ := r.Data[field].(string)
	return s
}
