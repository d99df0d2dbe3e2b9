package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferenceDataUnavailable indicates a reference dataset (or the
	// institution directory) could not be loaded or queried.
	// It is fatal for the whole run.
	ErrReferenceDataUnavailable = errors.New("reference data unavailable")

	// ErrResolutionAmbiguous indicates an establishment code matched more
	// than one active structure in the institution directory.
	ErrResolutionAmbiguous = errors.New("ambiguous institution resolution")

	// ErrGroupingInvariant indicates rows of the same program disagree on a
	// program-level field while strict grouping is enabled.
	ErrGroupingInvariant = errors.New("grouping invariant violated")

	// ErrStorageUnavailable indicates object storage is not configured.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)
