// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// A pipeline run is a chain of run-scoped session objects:
//
//   - Grouper: raw rows to grouped programs, in first-seen order
//   - Resolver: establishment codes to directory identities
//   - Enricher: census, occupational and job-code matching
//   - FaultLog: the structured fault log of the run
//
// Services are pure Go with no CGO.
package services
