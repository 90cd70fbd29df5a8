package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/internal/service/allocation"
	"github.com/peerxp/peerxp-backend/internal/service/consensus"
	"github.com/peerxp/peerxp-backend/internal/service/xp"
)

var (
	_ allocationService = &allocationServiceMock{}
	_ consensusService  = &consensusServiceMock{}
	_ xpService         = &xpServiceMock{}
	_ evalService       = &evalServiceMock{}
	_ submissionReader  = &submissionReaderMock{}
	_ auditReader       = &auditReaderMock{}
	_ ledgerReader      = &ledgerReaderMock{}
)

type allocationServiceMock struct {
	mu         sync.RWMutex
	EnsureFunc func(ctx context.Context, input allocation.EnsureInput) (*allocation.EnsureResult, error)

	EnsureCalls []allocation.EnsureInput
}

func (m *allocationServiceMock) Ensure(ctx context.Context, input allocation.EnsureInput) (*allocation.EnsureResult, error) {
	m.mu.Lock()
	m.EnsureCalls = append(m.EnsureCalls, input)
	m.mu.Unlock()
	if m.EnsureFunc == nil {
		panic("allocationServiceMock.EnsureFunc is nil")
	}
	return m.EnsureFunc(ctx, input)
}

type consensusServiceMock struct {
	mu               sync.RWMutex
	DetectFunc       func(ctx context.Context, submissionID uuid.UUID) (*consensus.Verdict, error)
	ListDisputesFunc func(ctx context.Context, limit int) ([]consensus.Dispute, error)

	DetectCalls       []uuid.UUID
	ListDisputesCalls []int
}

func (m *consensusServiceMock) Detect(ctx context.Context, submissionID uuid.UUID) (*consensus.Verdict, error) {
	m.mu.Lock()
	m.DetectCalls = append(m.DetectCalls, submissionID)
	m.mu.Unlock()
	if m.DetectFunc == nil {
		panic("consensusServiceMock.DetectFunc is nil")
	}
	return m.DetectFunc(ctx, submissionID)
}

func (m *consensusServiceMock) ListDisputes(ctx context.Context, limit int) ([]consensus.Dispute, error) {
	m.mu.Lock()
	m.ListDisputesCalls = append(m.ListDisputesCalls, limit)
	m.mu.Unlock()
	if m.ListDisputesFunc == nil {
		panic("consensusServiceMock.ListDisputesFunc is nil")
	}
	return m.ListDisputesFunc(ctx, limit)
}

type xpServiceMock struct {
	mu              sync.RWMutex
	PropagateFunc   func(ctx context.Context, input xp.PropagateInput) (*xp.ChangeResult, error)
	RecalculateFunc func(ctx context.Context, userID uuid.UUID) (*xp.Totals, error)

	PropagateCalls   []xp.PropagateInput
	RecalculateCalls []uuid.UUID
}

func (m *xpServiceMock) Propagate(ctx context.Context, input xp.PropagateInput) (*xp.ChangeResult, error) {
	m.mu.Lock()
	m.PropagateCalls = append(m.PropagateCalls, input)
	m.mu.Unlock()
	if m.PropagateFunc == nil {
		panic("xpServiceMock.PropagateFunc is nil")
	}
	return m.PropagateFunc(ctx, input)
}

func (m *xpServiceMock) Recalculate(ctx context.Context, userID uuid.UUID) (*xp.Totals, error) {
	m.mu.Lock()
	m.RecalculateCalls = append(m.RecalculateCalls, userID)
	m.mu.Unlock()
	if m.RecalculateFunc == nil {
		panic("xpServiceMock.RecalculateFunc is nil")
	}
	return m.RecalculateFunc(ctx, userID)
}

type evalServiceMock struct {
	mu                  sync.RWMutex
	EnqueueFunc         func(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error)
	GetBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error)

	EnqueueCalls         []uuid.UUID
	GetBySubmissionCalls []uuid.UUID
}

func (m *evalServiceMock) Enqueue(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error) {
	m.mu.Lock()
	m.EnqueueCalls = append(m.EnqueueCalls, submissionID)
	m.mu.Unlock()
	if m.EnqueueFunc == nil {
		panic("evalServiceMock.EnqueueFunc is nil")
	}
	return m.EnqueueFunc(ctx, submissionID)
}

func (m *evalServiceMock) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error) {
	m.mu.Lock()
	m.GetBySubmissionCalls = append(m.GetBySubmissionCalls, submissionID)
	m.mu.Unlock()
	if m.GetBySubmissionFunc == nil {
		panic("evalServiceMock.GetBySubmissionFunc is nil")
	}
	return m.GetBySubmissionFunc(ctx, submissionID)
}

type auditReaderMock struct {
	mu              sync.RWMutex
	GetByTargetFunc func(ctx context.Context, targetType domain.EntityType, targetID uuid.UUID, limit int) ([]domain.AuditRecord, error)

	GetByTargetCalls []uuid.UUID
}

func (m *auditReaderMock) GetByTarget(ctx context.Context, targetType domain.EntityType, targetID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	m.mu.Lock()
	m.GetByTargetCalls = append(m.GetByTargetCalls, targetID)
	m.mu.Unlock()
	if m.GetByTargetFunc == nil {
		panic("auditReaderMock.GetByTargetFunc is nil")
	}
	return m.GetByTargetFunc(ctx, targetType, targetID, limit)
}

type ledgerReaderMock struct {
	mu             sync.RWMutex
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.XpTransaction, error)
	GetWeeklyFunc  func(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (*domain.WeeklyStats, error)

	ListByUserCalls []uuid.UUID
	GetWeeklyCalls  []domain.WeekNumber
}

func (m *ledgerReaderMock) GetWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (*domain.WeeklyStats, error) {
	m.mu.Lock()
	m.GetWeeklyCalls = append(m.GetWeeklyCalls, week)
	m.mu.Unlock()
	if m.GetWeeklyFunc == nil {
		panic("ledgerReaderMock.GetWeeklyFunc is nil")
	}
	return m.GetWeeklyFunc(ctx, userID, week)
}

func (m *ledgerReaderMock) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.XpTransaction, error) {
	m.mu.Lock()
	m.ListByUserCalls = append(m.ListByUserCalls, userID)
	m.mu.Unlock()
	if m.ListByUserFunc == nil {
		panic("ledgerReaderMock.ListByUserFunc is nil")
	}
	return m.ListByUserFunc(ctx, userID, limit, offset)
}

type submissionReaderMock struct {
	mu          sync.RWMutex
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	GetByIDCalls []uuid.UUID
}

func (m *submissionReaderMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	m.mu.Lock()
	m.GetByIDCalls = append(m.GetByIDCalls, id)
	m.mu.Unlock()
	if m.GetByIDFunc == nil {
		panic("submissionReaderMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}
