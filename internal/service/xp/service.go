// Package xp implements the XP propagation engine: validated corrections to
// a submission's final XP, fanned out atomically across the submission, the
// author's cached totals, the transaction ledger, weekly aggregates, and the
// audit log.
package xp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

type submissionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	SetFinalXp(ctx context.Context, id uuid.UUID, finalXp int) error
}

type userRepo interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, totalXp, currentWeekXp int) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type ledgerRepo interface {
	CreateTransaction(ctx context.Context, t domain.XpTransaction) (domain.XpTransaction, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int, error)
	SumByUserWeek(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (int, error)
	UpsertWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber, xpDelta, completedDelta, missedDelta int) error
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type notifier interface {
	XpAdjusted(ctx context.Context, userID uuid.UUID, applied int, reason string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service applies XP corrections and keeps the ledger, cached totals, and
// weekly aggregates consistent.
type Service struct {
	submissions submissionRepo
	users       userRepo
	ledger      ledgerRepo
	audit       auditLogger
	notify      notifier
	tx          txManager
	log         *slog.Logger
	cfg         config.XpConfig
}

// NewService creates a new XP propagation service.
func NewService(
	log *slog.Logger,
	submissions submissionRepo,
	users userRepo,
	ledger ledgerRepo,
	audit auditLogger,
	notify notifier,
	tx txManager,
	cfg config.XpConfig,
) *Service {
	return &Service{
		submissions: submissions,
		users:       users,
		ledger:      ledger,
		audit:       audit,
		notify:      notify,
		tx:          tx,
		log:         log.With("service", "xp"),
		cfg:         cfg,
	}
}
