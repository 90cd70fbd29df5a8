package xp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/pkg/ctxutil"
)

// ChangeResult reports what a propagation touched. UpdatedEntities names the
// aggregates written inside the atomic section; Warnings carry post-commit
// side-effect failures that did not roll anything back.
type ChangeResult struct {
	Success         bool
	Delta           domain.XpDelta
	UpdatedEntities []string
	Errors          []string
	Warnings        []string
}

// Propagate corrects a submission's final XP and fans the change out to the
// author's cached totals, the transaction ledger, the weekly aggregate, and
// the audit log, all inside one transaction.
//
// The ledger entry records the clamped (applied) delta so the cached total
// and the transaction sum stay consistent. The weekly aggregate is
// incremented by the raw delta; its floor at zero lives in the upsert.
func (s *Service) Propagate(ctx context.Context, input PropagateInput) (*ChangeResult, error) {
	if err := input.Validate(s.cfg); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	requested := input.NewXp - input.OldXp
	result := &ChangeResult{}

	var (
		delta    domain.XpDelta
		authorID uuid.UUID
		week     domain.WeekNumber
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.submissions.GetByID(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		if sub.FinalXp != nil && *sub.FinalXp != input.OldXp {
			return domain.NewValidationError("oldXp",
				fmt.Sprintf("stale: submission holds finalXp=%d", *sub.FinalXp))
		}
		authorID = sub.AuthorID
		week = sub.WeekNumber

		if err := s.submissions.SetFinalXp(txCtx, sub.ID, input.NewXp); err != nil {
			return fmt.Errorf("set final xp: %w", err)
		}
		result.UpdatedEntities = append(result.UpdatedEntities, "submission")

		user, err := s.users.GetForUpdate(txCtx, sub.AuthorID)
		if err != nil {
			return fmt.Errorf("lock user row: %w", err)
		}

		delta = domain.ClampDelta(requested, user.TotalXp, user.CurrentWeekXp)
		if err := s.users.UpdateTotals(txCtx, user.ID,
			user.TotalXp+delta.Applied, user.CurrentWeekXp+delta.WeekApplied); err != nil {
			return fmt.Errorf("update user totals: %w", err)
		}
		result.UpdatedEntities = append(result.UpdatedEntities, "user")

		if _, err := s.ledger.CreateTransaction(txCtx, domain.XpTransaction{
			ID:           uuid.New(),
			UserID:       user.ID,
			Amount:       delta.Applied,
			Type:         input.transactionType(),
			SubmissionID: &sub.ID,
			WeekNumber:   week,
			Description:  input.Reason,
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		result.UpdatedEntities = append(result.UpdatedEntities, "xp_transaction")

		if err := s.ledger.UpsertWeekly(txCtx, user.ID, week, delta.Requested, 0, 0); err != nil {
			return fmt.Errorf("upsert weekly stats: %w", err)
		}
		result.UpdatedEntities = append(result.UpdatedEntities, "weekly_stats")

		actorID, _ := ctxutil.ActorIDFromCtx(txCtx)
		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ID:         uuid.New(),
			ActorID:    actorID,
			Action:     domain.AuditActionXpCorrection,
			TargetType: domain.EntityTypeSubmission,
			TargetID:   &input.SubmissionID,
			Details: map[string]any{
				"old_xp":        input.OldXp,
				"new_xp":        input.NewXp,
				"raw_delta":     delta.Requested,
				"applied_delta": delta.Applied,
				"reason":        input.Reason,
			},
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
		result.UpdatedEntities = append(result.UpdatedEntities, "audit_log")
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	result.Delta = delta

	if err := s.notify.XpAdjusted(ctx, authorID, delta.Applied, input.Reason); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("notify user: %v", err))
		s.log.WarnContext(ctx, "xp-adjusted notification failed",
			slog.String("user_id", authorID.String()),
			slog.Any("error", err),
		)
	}

	s.log.InfoContext(ctx, "xp propagated",
		slog.String("submission_id", input.SubmissionID.String()),
		slog.String("user_id", authorID.String()),
		slog.Int("requested", delta.Requested),
		slog.Int("applied", delta.Applied),
		slog.Bool("clamped", delta.Clamped()),
	)
	return result, nil
}
