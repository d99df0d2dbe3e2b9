// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a pipeline run:
//
//   - RawSource: Harvested FRESQ records for a run suffix
//   - InstitutionDirectory: Structure search and relations (Paysage)
//   - CensusSource, OccupationalSource, JobCodeSource: Reference datasets
//   - ResolutionStore: Cross-run establishment resolution table
//   - DocumentSink: JSONL output of documents and faults
//   - RecordNormaliser: Payload reshaping before grouping
//   - DocumentFormatter: Projection into canonical documents
//   - PostProcessorPipeline: Document post-processing before output
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - ObjectStore: Remote artifact storage. Without it, inputs and outputs stay local.
//   - RunStore: Run history. Without it, runs are only reported to the caller.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
