package domain

import "time"

// RunStatus is the final state of a pipeline run.
type RunStatus string

// Run statuses.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run summarises one pipeline run.
// A run succeeds when it writes its output, whatever its fault count.
type Run struct {
	ID         string
	Suffix     string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time

	Records   int
	Programs  int
	Documents int
	Faults    int

	// FaultsByCategory counts faults per category.
	FaultsByCategory map[FaultCategory]int

	// Resolutions counts directory resolutions per method.
	Resolutions map[ResolutionMethod]int

	// DocumentsPath is the written JSONL file.
	DocumentsPath string

	// FaultsPath is the written fault log.
	FaultsPath string

	// Error is set when the run failed.
	Error string
}
