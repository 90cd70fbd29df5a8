package consensus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

type reviewRepo interface {
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.PeerReview, error)
	GetScoreDispersion(ctx context.Context, submissionID uuid.UUID) (domain.ScoreDispersion, error)
}

type submissionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	ListFinalizedSince(ctx context.Context, since time.Time, limit int) ([]domain.Submission, error)
}

// Service runs dispute detection over finalized submissions.
type Service struct {
	reviews     reviewRepo
	submissions submissionRepo
	log         *slog.Logger
	cfg         config.ConsensusConfig
}

// NewService creates a new consensus service.
func NewService(
	log *slog.Logger,
	reviews reviewRepo,
	submissions submissionRepo,
	cfg config.ConsensusConfig,
) *Service {
	return &Service{
		reviews:     reviews,
		submissions: submissions,
		log:         log.With("service", "consensus"),
		cfg:         cfg,
	}
}

func (s *Service) thresholds() Thresholds {
	return Thresholds{
		StdDev:   s.cfg.StdDevThreshold,
		SpamLow:  s.cfg.SpamLow,
		SpamHigh: s.cfg.SpamHigh,
	}
}

// Detect classifies the reviewer disagreement for one finalized submission.
func (s *Service) Detect(ctx context.Context, submissionID uuid.UUID) (*Verdict, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if !sub.Status.IsTerminal() {
		return nil, domain.NewValidationError("submissionId", "submission is not finalized")
	}

	dispersion, err := s.reviews.GetScoreDispersion(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	verdict := Classify(reviews, dispersion.StdDev, s.thresholds())
	if verdict.Divergent {
		s.log.InfoContext(ctx, "divergent submission detected",
			slog.String("submission_id", submissionID.String()),
			slog.Float64("stddev", verdict.StdDev),
			slog.String("conflict_type", verdict.ConflictType.String()),
		)
	}
	return &verdict, nil
}

// Dispute pairs a divergent submission with its verdict for dashboard
// surfacing.
type Dispute struct {
	SubmissionID uuid.UUID
	AuthorID     uuid.UUID
	FinalXp      *int
	Verdict      Verdict
}

// ListDisputes scans submissions finalized within the lookback window and
// returns the divergent ones. Per-submission detection failures are logged
// and skipped so one bad row does not empty the dashboard.
func (s *Service) ListDisputes(ctx context.Context, limit int) ([]Dispute, error) {
	since := time.Now().UTC().Add(-s.cfg.Lookback)

	subs, err := s.submissions.ListFinalizedSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list finalized submissions: %w", err)
	}

	var disputes []Dispute
	for _, sub := range subs {
		dispersion, err := s.reviews.GetScoreDispersion(ctx, sub.ID)
		if err != nil {
			s.log.ErrorContext(ctx, "score dispersion failed",
				slog.String("submission_id", sub.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if dispersion.StdDev <= s.cfg.StdDevThreshold {
			continue
		}

		reviews, err := s.reviews.GetBySubmission(ctx, sub.ID)
		if err != nil {
			s.log.ErrorContext(ctx, "load reviews failed",
				slog.String("submission_id", sub.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		verdict := Classify(reviews, dispersion.StdDev, s.thresholds())
		if !verdict.Divergent {
			continue
		}
		disputes = append(disputes, Dispute{
			SubmissionID: sub.ID,
			AuthorID:     sub.AuthorID,
			FinalXp:      sub.FinalXp,
			Verdict:      verdict,
		})
	}
	return disputes, nil
}
