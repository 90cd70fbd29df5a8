package evalqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/internal/service/allocation"
)

// Run polls for pending jobs until the context is cancelled. Safe to run on
// multiple instances: the claim is a locked UPDATE ... RETURNING, so two
// workers never process the same job. The in-process draining flag only
// stops one instance from stacking drains when a batch outlives the poll
// interval; it is an optimization, not a correctness mechanism.
func (s *Service) Run(ctx context.Context) {
	s.log.InfoContext(ctx, "evaluation worker started",
		slog.Bool("scoring_enabled", s.cfg.Enabled),
		slog.Duration("poll_interval", s.cfg.PollInterval),
	)

	var draining atomic.Bool
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "evaluation worker stopped")
			return
		case <-ticker.C:
			if !draining.CompareAndSwap(false, true) {
				continue
			}
			s.Drain(ctx)
			draining.Store(false)
		}
	}
}

// Drain sweeps stalled jobs, then claims and processes one batch. A stalled
// job with attempts left goes back to PENDING; one that already spent its
// budget is terminally failed and its submission routed to manual review,
// the same end state retryOrFail produces for in-process failures.
func (s *Service) Drain(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.StallTimeout)

	exhausted, err := s.jobs.FailStalled(ctx, cutoff, s.cfg.MaxRetries)
	if err != nil {
		s.log.ErrorContext(ctx, "fail stalled jobs", slog.Any("error", err))
	}
	for _, job := range exhausted {
		if err := s.submissions.ResetForManualReview(ctx, job.SubmissionID); err != nil {
			s.log.ErrorContext(ctx, "route stalled job to manual review",
				slog.String("job_id", job.ID.String()),
				slog.String("submission_id", job.SubmissionID.String()),
				slog.Any("error", err),
			)
			continue
		}
		s.log.ErrorContext(ctx, "evaluation stalled with retries exhausted, routed to manual review",
			slog.String("job_id", job.ID.String()),
			slog.String("submission_id", job.SubmissionID.String()),
			slog.Int("attempts", job.Attempts),
		)
	}

	stalled, err := s.jobs.RequeueStalled(ctx, cutoff, s.cfg.MaxRetries)
	if err != nil {
		s.log.ErrorContext(ctx, "requeue stalled jobs", slog.Any("error", err))
	} else if stalled > 0 {
		s.log.WarnContext(ctx, "requeued stalled jobs", slog.Int64("count", stalled))
	}

	jobs, err := s.jobs.Claim(ctx, s.cfg.ClaimBatch)
	if err != nil {
		s.log.ErrorContext(ctx, "claim evaluation jobs", slog.Any("error", err))
		return
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		if err := s.processJob(ctx, job); err != nil {
			s.log.ErrorContext(ctx, "evaluation job failed",
				slog.String("job_id", job.ID.String()),
				slog.String("submission_id", job.SubmissionID.String()),
				slog.Int("attempts", job.Attempts),
				slog.Any("error", err),
			)
		}
	}
}

// processJob runs one claimed job to a terminal or retryable state.
func (s *Service) processJob(ctx context.Context, job domain.EvaluationJob) error {
	sub, err := s.submissions.GetByID(ctx, job.SubmissionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Submission was deleted out from under the queue; the job
			// has nothing left to do.
			return s.jobs.Fail(ctx, job.ID, "submission no longer exists")
		}
		return s.retryOrFail(ctx, job, fmt.Errorf("get submission: %w", err))
	}

	if !s.cfg.Enabled {
		return s.bypass(ctx, job, sub)
	}

	evalCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestBudget)
	result, err := s.scorer.Evaluate(evalCtx, sub)
	cancel()
	if err != nil {
		return s.retryOrFail(ctx, job, err)
	}

	if err := s.submissions.SetAiXp(ctx, sub.ID, result.BaseXp, result.Reasoning,
		domain.SubmissionStatusAIReviewed); err != nil {
		return s.retryOrFail(ctx, job, fmt.Errorf("record score: %w", err))
	}
	if err := s.jobs.Complete(ctx, job.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	s.log.InfoContext(ctx, "submission scored",
		slog.String("submission_id", sub.ID.String()),
		slog.Int("ai_xp", result.BaseXp),
		slog.Float64("confidence", result.Confidence),
	)

	s.seedPeerReview(ctx, sub)
	return nil
}

// bypass is the kill-switch path: the submission moves forward exactly as a
// scored one would, with zero XP and a reasoning note as the only trace.
func (s *Service) bypass(ctx context.Context, job domain.EvaluationJob, sub *domain.Submission) error {
	if err := s.submissions.SetAiXp(ctx, sub.ID, 0, "automated evaluation disabled",
		domain.SubmissionStatusAIReviewed); err != nil {
		return s.retryOrFail(ctx, job, fmt.Errorf("record bypass: %w", err))
	}
	if err := s.jobs.Complete(ctx, job.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	s.seedPeerReview(ctx, sub)
	return nil
}

// retryOrFail returns the job to the queue, or fails it and routes the
// submission to manual review once the attempt budget is spent. Claim
// already counted this attempt.
func (s *Service) retryOrFail(ctx context.Context, job domain.EvaluationJob, cause error) error {
	if job.Attempts < s.cfg.MaxRetries {
		if err := s.jobs.Requeue(ctx, job.ID, cause.Error()); err != nil {
			return fmt.Errorf("requeue job: %w", err)
		}
		s.log.WarnContext(ctx, "evaluation attempt failed, requeued",
			slog.String("job_id", job.ID.String()),
			slog.Int("attempts", job.Attempts),
			slog.Any("error", cause),
		)
		return nil
	}

	if err := s.jobs.Fail(ctx, job.ID, cause.Error()); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	if err := s.submissions.ResetForManualReview(ctx, job.SubmissionID); err != nil {
		return fmt.Errorf("route to manual review: %w", err)
	}
	s.log.ErrorContext(ctx, "evaluation exhausted retries, routed to manual review",
		slog.String("submission_id", job.SubmissionID.String()),
		slog.Any("error", cause),
	)
	return nil
}

// seedPeerReview invokes the assignment reconciler for a scored submission.
// A reconciliation failure is logged, never fatal: the ensure operation is
// idempotent and an admin retry (or the overdue sweep) picks it up.
func (s *Service) seedPeerReview(ctx context.Context, sub *domain.Submission) {
	res, err := s.reconciler.Ensure(ctx, allocation.EnsureInput{
		SubmissionID: sub.ID,
		AuthorID:     sub.AuthorID,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "seed peer review",
			slog.String("submission_id", sub.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	if res.Status == allocation.EnsureFailed {
		s.log.WarnContext(ctx, "peer review seeding failed",
			slog.String("submission_id", sub.ID.String()),
			slog.Any("errors", res.Errors),
		)
	}
}
