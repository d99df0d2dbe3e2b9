package postprocessors

import (
	"context"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.PostProcessor = (*FieldDropper)(nil)

// FieldDropper removes top-level fields from documents, for outputs that
// do not index them.
type FieldDropper struct {
	fields []string
}

// NewFieldDropper creates a processor dropping the given fields.
func NewFieldDropper(fields ...string) *FieldDropper {
	return &FieldDropper{fields: fields}
}

// Name returns the processor identifier.
func (d *FieldDropper) Name() string {
	return NameDropFields
}

// Process returns a copy of the document without the configured fields.
func (d *FieldDropper) Process(_ context.Context, doc domain.Document) (domain.Document, error) {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, f := range d.fields {
		delete(out, f)
	}
	return out, nil
}

// Fields returns the dropped field names.
func (d *FieldDropper) Fields() []string {
	return d.fields
}
