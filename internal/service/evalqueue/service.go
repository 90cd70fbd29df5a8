// Package evalqueue drives submissions through automated scoring: a polling
// worker claims pending jobs, calls the scoring provider (or bypasses it
// when evaluation is disabled), and hands scored submissions to the
// assignment reconciler to seed peer review.
package evalqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/internal/service/allocation"
)

type jobRepo interface {
	Enqueue(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error)
	Claim(ctx context.Context, limit int) ([]domain.EvaluationJob, error)
	RequeueStalled(ctx context.Context, startedBefore time.Time, maxAttempts int) (int64, error)
	FailStalled(ctx context.Context, startedBefore time.Time, maxAttempts int) ([]domain.EvaluationJob, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Requeue(ctx context.Context, id uuid.UUID, lastError string) error
	Fail(ctx context.Context, id uuid.UUID, lastError string) error
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error)
}

type submissionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	SetAiXp(ctx context.Context, id uuid.UUID, aiXp int, reasoning string, status domain.SubmissionStatus) error
	ResetForManualReview(ctx context.Context, id uuid.UUID) error
}

type scorer interface {
	Evaluate(ctx context.Context, sub *domain.Submission) (domain.EvaluationResult, error)
}

type reconciler interface {
	Ensure(ctx context.Context, input allocation.EnsureInput) (*allocation.EnsureResult, error)
}

// Service owns the evaluation job lifecycle.
type Service struct {
	jobs        jobRepo
	submissions submissionRepo
	scorer      scorer
	reconciler  reconciler
	log         *slog.Logger
	cfg         config.AIConfig
}

// NewService creates a new evaluation queue service.
func NewService(
	log *slog.Logger,
	jobs jobRepo,
	submissions submissionRepo,
	scorer scorer,
	reconciler reconciler,
	cfg config.AIConfig,
) *Service {
	return &Service{
		jobs:        jobs,
		submissions: submissions,
		scorer:      scorer,
		reconciler:  reconciler,
		log:         log.With("service", "evalqueue"),
		cfg:         cfg,
	}
}

// Enqueue queues a submission for automated scoring.
func (s *Service) Enqueue(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error) {
	job, err := s.jobs.Enqueue(ctx, submissionID)
	if err != nil {
		return domain.EvaluationJob{}, err
	}
	s.log.InfoContext(ctx, "evaluation job queued",
		slog.String("job_id", job.ID.String()),
		slog.String("submission_id", submissionID.String()),
	)
	return job, nil
}

// GetBySubmission returns the evaluation job for a submission.
func (s *Service) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error) {
	return s.jobs.GetBySubmission(ctx, submissionID)
}
