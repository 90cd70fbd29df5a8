package allocation

import "github.com/google/uuid"

// AssignResult reports the outcome of an allocation request. Errors and
// Warnings are human-readable and itemized so callers can surface them
// without unwrapping.
type AssignResult struct {
	Success           bool
	AssignedReviewers []uuid.UUID
	Errors            []string
	Warnings          []string
}

// EnsureStatus is the outcome of an ensure call.
type EnsureStatus string

const (
	// EnsureAssigned means new assignments were created and the required
	// count is now satisfied.
	EnsureAssigned EnsureStatus = "ASSIGNED"
	// EnsureSkipped means the submission already held enough active
	// assignments and nothing was created.
	EnsureSkipped EnsureStatus = "SKIPPED_ALREADY_ASSIGNED"
	// EnsureFailed means the required count could not be satisfied. Any
	// assignments created before the shortfall was detected are kept.
	EnsureFailed EnsureStatus = "FAILED"
)

// EnsureResult reports the outcome of the idempotent ensure operation.
type EnsureResult struct {
	Status            EnsureStatus
	AssignedReviewers []uuid.UUID
	Errors            []string
	Warnings          []string
}
