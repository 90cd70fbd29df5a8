package allocation

import (
	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

// AssignInput holds the parameters for a direct allocation request.
type AssignInput struct {
	SubmissionID uuid.UUID
	AuthorID     uuid.UUID
	// MinimumReviewers overrides the configured target when > 0.
	MinimumReviewers int
	// AllowPartial permits assigning fewer reviewers than the target when
	// the eligible pool is short, downgrading the shortfall to a warning.
	AllowPartial bool
	// Exclude lists reviewers that must not be selected, in addition to
	// the author (always excluded).
	Exclude []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i AssignInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submissionId", Message: "required"})
	}
	if i.AuthorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "authorId", Message: "required"})
	}
	if i.MinimumReviewers < 0 {
		errs = append(errs, domain.FieldError{Field: "minimumReviewers", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// EnsureInput holds the parameters for the idempotent ensure operation.
type EnsureInput struct {
	SubmissionID uuid.UUID
	AuthorID     uuid.UUID
	// MinimumReviewers overrides the configured target when > 0.
	MinimumReviewers int
	Exclude          []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i EnsureInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submissionId", Message: "required"})
	}
	if i.AuthorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "authorId", Message: "required"})
	}
	if i.MinimumReviewers < 0 {
		errs = append(errs, domain.FieldError{Field: "minimumReviewers", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// target resolves the effective reviewer target: the configured minimum by
// default, floored at 1 and capped at the configured maximum.
func (s *Service) target(requested int) int {
	t := requested
	if t <= 0 {
		t = s.cfg.MinimumReviewers
	}
	if t < 1 {
		t = 1
	}
	if t > s.cfg.MaximumReviewers {
		t = s.cfg.MaximumReviewers
	}
	return t
}
