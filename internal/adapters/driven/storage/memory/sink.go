package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Ensure the adapters implement the interfaces.
var (
	_ driven.DocumentSink = (*DocumentSink)(nil)
	_ driven.RawSource    = (*RawSource)(nil)
)

// DocumentSink keeps written documents and faults in memory.
type DocumentSink struct {
	mu        sync.Mutex
	Documents []domain.Document
	Faults    []domain.Fault

	// Err, when set, is returned by Write.
	Err error
}

// Write stores the documents and faults of a run.
func (s *DocumentSink) Write(_ context.Context, suffix string, docs []domain.Document, faults []domain.Fault) (driven.Artifacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return driven.Artifacts{}, s.Err
	}
	s.Documents = docs
	s.Faults = faults
	return driven.Artifacts{
		DocumentsPath: "memory://fresq_formatted_" + suffix + ".jsonl",
		FaultsPath:    "memory://fresq_faults_" + suffix + ".log",
	}, nil
}

// RawSource serves raw records per suffix.
type RawSource struct {
	mu      sync.RWMutex
	records map[string][]domain.RawRecord
}

// NewRawSource creates an empty raw source.
func NewRawSource() *RawSource {
	return &RawSource{records: make(map[string][]domain.RawRecord)}
}

// Add appends records to a suffix.
func (s *RawSource) Add(suffix string, records ...domain.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[suffix] = append(s.records[suffix], records...)
}

// Records returns a copy of the records of suffix.
// Returns domain.ErrNotFound for unknown suffixes.
func (s *RawSource) Records(_ context.Context, suffix string) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.records[suffix]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.RawRecord, len(recs))
	copy(out, recs)
	return out, nil
}
