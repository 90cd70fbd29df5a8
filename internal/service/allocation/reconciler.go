package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/pkg/ctxutil"
)

// Ensure tops up a submission's active assignments to the required minimum.
// Idempotent: a submission already holding enough active assignments is a
// no-op returning EnsureSkipped, so retries from the evaluation pipeline and
// manual admin calls are safe.
//
// A partial fill is a failure here even though Assign reports it as success
// with a warning: downstream consumers get "fully satisfied or explicitly
// failed", nothing in between. Assignments created before the shortfall was
// detected are kept so a later retry only requests the remainder.
func (s *Service) Ensure(ctx context.Context, input EnsureInput) (*EnsureResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	required := s.target(input.MinimumReviewers)

	existing, err := s.assignments.GetActiveBySubmission(ctx, input.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("load active assignments: %w", err)
	}
	if len(existing) >= required {
		s.log.DebugContext(ctx, "assignments already satisfied",
			slog.String("submission_id", input.SubmissionID.String()),
			slog.Int("existing", len(existing)),
			slog.Int("required", required),
		)
		return &EnsureResult{Status: EnsureSkipped}, nil
	}

	remaining := required - len(existing)
	exclude := make([]uuid.UUID, 0, len(existing)+len(input.Exclude))
	for _, a := range existing {
		exclude = append(exclude, a.ReviewerID)
	}
	exclude = append(exclude, input.Exclude...)

	assignRes, err := s.Assign(ctx, AssignInput{
		SubmissionID:     input.SubmissionID,
		AuthorID:         input.AuthorID,
		MinimumReviewers: remaining,
		AllowPartial:     s.cfg.AllowPartial,
		Exclude:          exclude,
	})
	if err != nil {
		failed := &EnsureResult{Status: EnsureFailed}
		if assignRes != nil && len(assignRes.Errors) > 0 {
			failed.Errors = assignRes.Errors
		} else {
			failed.Errors = []string{err.Error()}
		}
		return failed, nil
	}

	result := &EnsureResult{
		Status:            EnsureAssigned,
		AssignedReviewers: assignRes.AssignedReviewers,
		Warnings:          assignRes.Warnings,
	}

	if len(assignRes.AssignedReviewers) < remaining {
		result.Status = EnsureFailed
		result.Errors = append(result.Errors,
			fmt.Sprintf("partial assignment: got %d of %d needed reviewers",
				len(assignRes.AssignedReviewers), remaining))
		return result, nil
	}

	// Two concurrent ensure calls can both pass the count check above; the
	// unique index deduplicates inserts, and this recheck catches the case
	// where swallowed duplicates left the submission short.
	count, err := s.assignments.CountActiveBySubmission(ctx, input.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("recheck assignment count: %w", err)
	}
	if count < required {
		result.Status = EnsureFailed
		result.Errors = append(result.Errors,
			fmt.Sprintf("post-assignment count %d below required %d", count, required))
		return result, nil
	}

	s.notifyAssigned(ctx, input.SubmissionID, assignRes.AssignedReviewers, result)
	return result, nil
}

// notifyAssigned notifies newly assigned reviewers. Best effort: failures
// become warnings and never roll back the assignment.
func (s *Service) notifyAssigned(ctx context.Context, submissionID uuid.UUID, reviewers []uuid.UUID, result *EnsureResult) {
	if len(reviewers) == 0 {
		return
	}

	url := ""
	if sub, err := s.submissions.GetByID(ctx, submissionID); err == nil {
		url = sub.URL
	}

	for _, reviewerID := range reviewers {
		if err := s.notify.ReviewAssigned(ctx, reviewerID, submissionID, url); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("notify reviewer %s: %v", reviewerID, err))
			s.log.WarnContext(ctx, "review-assigned notification failed",
				slog.String("reviewer_id", reviewerID.String()),
				slog.String("submission_id", submissionID.String()),
				slog.Any("error", err),
			)
		}
	}
}

// ExpireOverdue sweeps pending assignments past their deadline: each is
// marked REASSIGNED, the reviewer's missed-review counter is incremented,
// and the submission is topped back up via Ensure. Returns the number of
// assignments expired. Per-submission ensure failures are logged and do not
// stop the sweep; the next run retries them.
func (s *Service) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	now := time.Now().UTC()

	overdue, err := s.assignments.ListOverdue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list overdue assignments: %w", err)
	}

	expired := 0
	for _, a := range overdue {
		if err := s.assignments.MarkReassigned(ctx, a.ID); err != nil {
			s.log.ErrorContext(ctx, "mark assignment reassigned",
				slog.String("assignment_id", a.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		expired++

		if err := s.users.IncrementMissedReviews(ctx, a.ReviewerID); err != nil {
			s.log.ErrorContext(ctx, "increment missed reviews",
				slog.String("reviewer_id", a.ReviewerID.String()),
				slog.Any("error", err),
			)
		}

		actorID, _ := ctxutil.ActorIDFromCtx(ctx)
		if err := s.audit.Log(ctx, domain.AuditRecord{
			ID:         uuid.New(),
			ActorID:    actorID,
			Action:     domain.AuditActionReassign,
			TargetType: domain.EntityTypeAssignment,
			TargetID:   &a.ID,
			Details: map[string]any{
				"submission_id": a.SubmissionID.String(),
				"reviewer_id":   a.ReviewerID.String(),
				"deadline":      a.Deadline.Format(time.RFC3339),
			},
			CreatedAt: now,
		}); err != nil {
			s.log.WarnContext(ctx, "audit log write failed",
				slog.String("action", string(domain.AuditActionReassign)),
				slog.String("assignment_id", a.ID.String()),
				slog.Any("error", err),
			)
		}

		sub, err := s.submissions.GetByID(ctx, a.SubmissionID)
		if err != nil {
			s.log.ErrorContext(ctx, "load submission for reassignment",
				slog.String("submission_id", a.SubmissionID.String()),
				slog.Any("error", err),
			)
			continue
		}

		res, err := s.Ensure(ctx, EnsureInput{
			SubmissionID: sub.ID,
			AuthorID:     sub.AuthorID,
			// The expired reviewer sits out the replacement round.
			Exclude: []uuid.UUID{a.ReviewerID},
		})
		if err != nil || res.Status == EnsureFailed {
			s.log.WarnContext(ctx, "reassignment top-up failed",
				slog.String("submission_id", a.SubmissionID.String()),
				slog.Any("error", err),
			)
		}
	}

	if expired > 0 {
		s.log.InfoContext(ctx, "expired overdue assignments", slog.Int("count", expired))
	}
	return expired, nil
}
