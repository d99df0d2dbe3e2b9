package services

import (
	"sync"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Fault subsystems.
const (
	subsystemGrouping   = "grouping"
	subsystemResolver   = "resolver"
	subsystemEnrichment = "enrichment"
	subsystemCensus     = "census"
)

// FaultLog collects the structured faults of a run.
// Faults never abort a record; they are a quality signal.
type FaultLog struct {
	mu     sync.Mutex
	faults []domain.Fault
}

// NewFaultLog creates an empty fault log.
func NewFaultLog() *FaultLog {
	return &FaultLog{}
}

// Record appends a fault and echoes it to the verbose log.
func (l *FaultLog) Record(f domain.Fault) {
	l.mu.Lock()
	l.faults = append(l.faults, f)
	l.mu.Unlock()
	logger.Fault(f.String())
}

// DataQuality records a data-quality fault.
func (l *FaultLog) DataQuality(subsystem, reason string, ids ...string) {
	l.Record(domain.Fault{Category: domain.FaultDataQuality, Subsystem: subsystem, Reason: reason, IDs: ids})
}

// Ambiguity records a resolution-ambiguity fault.
func (l *FaultLog) Ambiguity(subsystem, reason string, ids ...string) {
	l.Record(domain.Fault{Category: domain.FaultResolutionAmbiguity, Subsystem: subsystem, Reason: reason, IDs: ids})
}

// Structural records a structural-invariant fault.
func (l *FaultLog) Structural(subsystem, reason string, ids ...string) {
	l.Record(domain.Fault{Category: domain.FaultStructural, Subsystem: subsystem, Reason: reason, IDs: ids})
}

// Faults returns a copy of the recorded faults, in recording order.
func (l *FaultLog) Faults() []domain.Fault {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Fault, len(l.faults))
	copy(out, l.faults)
	return out
}

// Len returns the number of recorded faults.
func (l *FaultLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.faults)
}

// CountByCategory returns the number of faults per category.
func (l *FaultLog) CountByCategory() map[domain.FaultCategory]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	counts := make(map[domain.FaultCategory]int)
	for _, f := range l.faults {
		counts[f.Category]++
	}
	return counts
}
