// Package domain defines the core business entities for the FRESQ pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: One harvested (program, establishment) row with its envelope
//   - GroupedProgram: One logical program built from all its rows
//   - InstitutionIdentity: The resolved directory identity of an establishment
//   - Location: A deduplicated physical or administrative place
//   - Formation: The canonical, search-indexable output document
//   - Fault: A structured data-quality or invariant fault
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
