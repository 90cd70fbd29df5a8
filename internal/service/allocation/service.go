// Package allocation implements reviewer pool allocation and assignment
// reconciliation: eligibility filtering, workload-balanced ranking,
// deadline computation, and the idempotent ensure operation used by both
// the evaluation pipeline and manual admin retries.
package allocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type candidateRepo interface {
	Candidates(ctx context.Context, exclude []uuid.UUID) ([]domain.ReviewerCandidate, error)
}

type assignmentRepo interface {
	Create(ctx context.Context, a domain.ReviewAssignment) (domain.ReviewAssignment, error)
	GetActiveBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.ReviewAssignment, error)
	CountActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error)
	MarkReassigned(ctx context.Context, id uuid.UUID) error
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewAssignment, error)
}

type submissionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewCount int) (*domain.Submission, error)
}

type userRepo interface {
	IncrementMissedReviews(ctx context.Context, id uuid.UUID) error
}

type notifier interface {
	ReviewAssigned(ctx context.Context, reviewerID, submissionID uuid.UUID, url string) error
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements reviewer allocation and assignment reconciliation.
type Service struct {
	candidates  candidateRepo
	assignments assignmentRepo
	submissions submissionRepo
	users       userRepo
	notify      notifier
	audit       auditLogger
	tx          txManager
	log         *slog.Logger
	cfg         config.ReviewConfig
}

// NewService creates a new allocation service.
func NewService(
	log *slog.Logger,
	candidates candidateRepo,
	assignments assignmentRepo,
	submissions submissionRepo,
	users userRepo,
	notify notifier,
	audit auditLogger,
	tx txManager,
	cfg config.ReviewConfig,
) *Service {
	return &Service{
		candidates:  candidates,
		assignments: assignments,
		submissions: submissions,
		users:       users,
		notify:      notify,
		audit:       audit,
		tx:          tx,
		log:         log.With("service", "allocation"),
		cfg:         cfg,
	}
}

func (s *Service) rules() EligibilityRules {
	return EligibilityRules{
		MaxActiveAssignments: s.cfg.MaxActiveAssignments,
		MaxMissedReviews:     s.cfg.MaxMissedReviews,
		MinTotalXp:           s.cfg.MinReviewerXp,
	}
}
