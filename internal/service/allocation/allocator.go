package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/pkg/ctxutil"
)

// Assign selects reviewers for a submission and persists their assignments.
//
// The candidate snapshot is filtered by the eligibility rules, ranked by
// workload, and the first target candidates are taken. Assignment inserts and
// the submission status update run in one transaction. A duplicate
// (submission, reviewer) insert is downgraded to a warning: under concurrent
// ensure calls the partial unique index is the arbiter, and losing that race
// means the pair already holds an active assignment.
func (s *Service) Assign(ctx context.Context, input AssignInput) (*AssignResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	target := s.target(input.MinimumReviewers)
	result := &AssignResult{}

	candidates, err := s.candidates.Candidates(ctx, input.Exclude)
	if err != nil {
		return nil, fmt.Errorf("load reviewer candidates: %w", err)
	}

	exclude := make(map[uuid.UUID]struct{}, len(input.Exclude))
	for _, id := range input.Exclude {
		exclude[id] = struct{}{}
	}

	now := time.Now().UTC()
	eligible, malformed := FilterCandidates(candidates, input.AuthorID, exclude, s.rules(), now)
	for _, id := range malformed {
		s.log.WarnContext(ctx, "malformed opt-out preferences, treating as not opted out",
			slog.String("user_id", id.String()),
		)
	}

	if len(eligible) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("no eligible reviewers (need %d)", target))
		return result, &domain.PoolExhaustedError{Required: target, Available: 0}
	}

	ranked := Rank(eligible)
	if len(ranked) < target {
		if !input.AllowPartial {
			result.Errors = append(result.Errors,
				fmt.Sprintf("eligible pool too small: need %d, have %d", target, len(ranked)))
			return result, &domain.PoolExhaustedError{Required: target, Available: len(ranked)}
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("partial assignment: %d of %d requested reviewers", len(ranked), target))
		target = len(ranked)
	}

	selected := ranked[:target]
	deadline := Deadline(now, s.cfg.Deadline)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, c := range selected {
			_, err := s.assignments.Create(txCtx, domain.ReviewAssignment{
				ID:           uuid.New(),
				SubmissionID: input.SubmissionID,
				ReviewerID:   c.UserID,
				Status:       domain.AssignmentStatusPending,
				Deadline:     deadline,
				AssignedAt:   now,
			})
			if err != nil {
				if errors.Is(err, domain.ErrAlreadyExists) {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("reviewer %s already assigned, skipping", c.UserID))
					continue
				}
				return fmt.Errorf("create assignment for reviewer %s: %w", c.UserID, err)
			}
			result.AssignedReviewers = append(result.AssignedReviewers, c.UserID)
		}

		count, err := s.assignments.CountActiveBySubmission(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("count active assignments: %w", err)
		}
		if _, err := s.submissions.UpdateStatus(txCtx, input.SubmissionID,
			domain.SubmissionStatusUnderPeerReview, count); err != nil {
			return fmt.Errorf("update submission status: %w", err)
		}
		return nil
	})
	if err != nil {
		result.AssignedReviewers = nil
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	actorID, _ := ctxutil.ActorIDFromCtx(ctx)
	if err := s.audit.Log(ctx, domain.AuditRecord{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     domain.AuditActionAssignReviewers,
		TargetType: domain.EntityTypeSubmission,
		TargetID:   &input.SubmissionID,
		Details: map[string]any{
			"assigned": len(result.AssignedReviewers),
			"target":   target,
			"deadline": deadline.Format(time.RFC3339),
		},
		CreatedAt: now,
	}); err != nil {
		// The assignments are already committed; losing the audit record
		// is worth a warning, not a rollback.
		s.log.WarnContext(ctx, "audit log write failed",
			slog.String("action", string(domain.AuditActionAssignReviewers)),
			slog.String("submission_id", input.SubmissionID.String()),
			slog.Any("error", err),
		)
	}

	result.Success = true
	s.log.InfoContext(ctx, "reviewers assigned",
		slog.String("submission_id", input.SubmissionID.String()),
		slog.Int("assigned", len(result.AssignedReviewers)),
		slog.Int("target", target),
		slog.Time("deadline", deadline),
	)
	return result, nil
}
