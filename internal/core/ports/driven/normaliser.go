package driven

import "github.com/custodia-labs/fresq/internal/core/domain"

// RecordNormaliser rewrites a raw record's payload into the shape the
// formatter reads, before grouping.
type RecordNormaliser interface {
	// Normalise rewrites the record in place and returns the number of
	// sub-structures it changed.
	Normalise(rec *domain.RawRecord) int
}

// DocumentFormatter projects an enriched program into a canonical document.
// It performs no IO.
type DocumentFormatter interface {
	FormatDocument(p *domain.GroupedProgram) (domain.Document, error)
}
