package domain

import "strings"

// FaultCategory classifies a fault in the run's fault log.
type FaultCategory string

// Fault categories.
const (
	// FaultDataQuality covers malformed optional fields, cross-establishment
	// disagreement and unexpected multi-matches. Never aborts a record.
	FaultDataQuality FaultCategory = "data_quality"

	// FaultResolutionAmbiguity covers codes matching several active structures.
	FaultResolutionAmbiguity FaultCategory = "resolution_ambiguity"

	// FaultStructural covers malformed natural ids and absent envelope fields.
	FaultStructural FaultCategory = "structural"
)

// Fault is a structured, machine-parseable fault record.
type Fault struct {
	Category  FaultCategory
	Subsystem string
	Reason    string
	IDs       []string
}

// String renders the fault as category;subsystem;reason;ids...
func (f Fault) String() string {
	parts := make([]string, 0, 3+len(f.IDs))
	parts = append(parts, string(f.Category), f.Subsystem, f.Reason)
	for _, id := range f.IDs {
		parts = append(parts, strings.ReplaceAll(id, ";", ","))
	}
	return strings.Join(parts, ";")
}
