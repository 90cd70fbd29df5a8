package allocation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

var _ candidateRepo = &candidateRepoMock{}

type candidateRepoMock struct {
	CandidatesFunc func(ctx context.Context, exclude []uuid.UUID) ([]domain.ReviewerCandidate, error)

	calls struct {
		Candidates []struct {
			Exclude []uuid.UUID
		}
	}
	lockCandidates sync.RWMutex
}

func (mock *candidateRepoMock) Candidates(ctx context.Context, exclude []uuid.UUID) ([]domain.ReviewerCandidate, error) {
	if mock.CandidatesFunc == nil {
		panic("candidateRepoMock.CandidatesFunc: method is nil but candidateRepo.Candidates was just called")
	}
	mock.lockCandidates.Lock()
	mock.calls.Candidates = append(mock.calls.Candidates, struct {
		Exclude []uuid.UUID
	}{Exclude: exclude})
	mock.lockCandidates.Unlock()
	return mock.CandidatesFunc(ctx, exclude)
}

func (mock *candidateRepoMock) CandidatesCalls() []struct {
	Exclude []uuid.UUID
} {
	mock.lockCandidates.RLock()
	calls := mock.calls.Candidates
	mock.lockCandidates.RUnlock()
	return calls
}

var _ assignmentRepo = &assignmentRepoMock{}

type assignmentRepoMock struct {
	CreateFunc                  func(ctx context.Context, a domain.ReviewAssignment) (domain.ReviewAssignment, error)
	GetActiveBySubmissionFunc   func(ctx context.Context, submissionID uuid.UUID) ([]domain.ReviewAssignment, error)
	CountActiveBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) (int, error)
	MarkReassignedFunc          func(ctx context.Context, id uuid.UUID) error
	ListOverdueFunc             func(ctx context.Context, now time.Time, limit int) ([]domain.ReviewAssignment, error)

	calls struct {
		Create []struct {
			A domain.ReviewAssignment
		}
		GetActiveBySubmission []struct {
			SubmissionID uuid.UUID
		}
		CountActiveBySubmission []struct {
			SubmissionID uuid.UUID
		}
		MarkReassigned []struct {
			ID uuid.UUID
		}
		ListOverdue []struct {
			Now   time.Time
			Limit int
		}
	}
	lockCreate                  sync.RWMutex
	lockGetActiveBySubmission   sync.RWMutex
	lockCountActiveBySubmission sync.RWMutex
	lockMarkReassigned          sync.RWMutex
	lockListOverdue             sync.RWMutex
}

func (mock *assignmentRepoMock) Create(ctx context.Context, a domain.ReviewAssignment) (domain.ReviewAssignment, error) {
	if mock.CreateFunc == nil {
		panic("assignmentRepoMock.CreateFunc: method is nil but assignmentRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		A domain.ReviewAssignment
	}{A: a})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, a)
}

func (mock *assignmentRepoMock) CreateCalls() []struct {
	A domain.ReviewAssignment
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *assignmentRepoMock) GetActiveBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.ReviewAssignment, error) {
	if mock.GetActiveBySubmissionFunc == nil {
		panic("assignmentRepoMock.GetActiveBySubmissionFunc: method is nil but assignmentRepo.GetActiveBySubmission was just called")
	}
	mock.lockGetActiveBySubmission.Lock()
	mock.calls.GetActiveBySubmission = append(mock.calls.GetActiveBySubmission, struct {
		SubmissionID uuid.UUID
	}{SubmissionID: submissionID})
	mock.lockGetActiveBySubmission.Unlock()
	return mock.GetActiveBySubmissionFunc(ctx, submissionID)
}

func (mock *assignmentRepoMock) GetActiveBySubmissionCalls() []struct {
	SubmissionID uuid.UUID
} {
	mock.lockGetActiveBySubmission.RLock()
	calls := mock.calls.GetActiveBySubmission
	mock.lockGetActiveBySubmission.RUnlock()
	return calls
}

func (mock *assignmentRepoMock) CountActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	if mock.CountActiveBySubmissionFunc == nil {
		panic("assignmentRepoMock.CountActiveBySubmissionFunc: method is nil but assignmentRepo.CountActiveBySubmission was just called")
	}
	mock.lockCountActiveBySubmission.Lock()
	mock.calls.CountActiveBySubmission = append(mock.calls.CountActiveBySubmission, struct {
		SubmissionID uuid.UUID
	}{SubmissionID: submissionID})
	mock.lockCountActiveBySubmission.Unlock()
	return mock.CountActiveBySubmissionFunc(ctx, submissionID)
}

func (mock *assignmentRepoMock) CountActiveBySubmissionCalls() []struct {
	SubmissionID uuid.UUID
} {
	mock.lockCountActiveBySubmission.RLock()
	calls := mock.calls.CountActiveBySubmission
	mock.lockCountActiveBySubmission.RUnlock()
	return calls
}

func (mock *assignmentRepoMock) MarkReassigned(ctx context.Context, id uuid.UUID) error {
	if mock.MarkReassignedFunc == nil {
		panic("assignmentRepoMock.MarkReassignedFunc: method is nil but assignmentRepo.MarkReassigned was just called")
	}
	mock.lockMarkReassigned.Lock()
	mock.calls.MarkReassigned = append(mock.calls.MarkReassigned, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lockMarkReassigned.Unlock()
	return mock.MarkReassignedFunc(ctx, id)
}

func (mock *assignmentRepoMock) MarkReassignedCalls() []struct {
	ID uuid.UUID
} {
	mock.lockMarkReassigned.RLock()
	calls := mock.calls.MarkReassigned
	mock.lockMarkReassigned.RUnlock()
	return calls
}

func (mock *assignmentRepoMock) ListOverdue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewAssignment, error) {
	if mock.ListOverdueFunc == nil {
		panic("assignmentRepoMock.ListOverdueFunc: method is nil but assignmentRepo.ListOverdue was just called")
	}
	mock.lockListOverdue.Lock()
	mock.calls.ListOverdue = append(mock.calls.ListOverdue, struct {
		Now   time.Time
		Limit int
	}{Now: now, Limit: limit})
	mock.lockListOverdue.Unlock()
	return mock.ListOverdueFunc(ctx, now, limit)
}

func (mock *assignmentRepoMock) ListOverdueCalls() []struct {
	Now   time.Time
	Limit int
} {
	mock.lockListOverdue.RLock()
	calls := mock.calls.ListOverdue
	mock.lockListOverdue.RUnlock()
	return calls
}

var _ submissionRepo = &submissionRepoMock{}

type submissionRepoMock struct {
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewCount int) (*domain.Submission, error)

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
		UpdateStatus []struct {
			ID          uuid.UUID
			Status      domain.SubmissionStatus
			ReviewCount int
		}
	}
	lockGetByID      sync.RWMutex
	lockUpdateStatus sync.RWMutex
}

func (mock *submissionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	if mock.GetByIDFunc == nil {
		panic("submissionRepoMock.GetByIDFunc: method is nil but submissionRepo.GetByID was just called")
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *submissionRepoMock) GetByIDCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *submissionRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewCount int) (*domain.Submission, error) {
	if mock.UpdateStatusFunc == nil {
		panic("submissionRepoMock.UpdateStatusFunc: method is nil but submissionRepo.UpdateStatus was just called")
	}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, struct {
		ID          uuid.UUID
		Status      domain.SubmissionStatus
		ReviewCount int
	}{ID: id, Status: status, ReviewCount: reviewCount})
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status, reviewCount)
}

func (mock *submissionRepoMock) UpdateStatusCalls() []struct {
	ID          uuid.UUID
	Status      domain.SubmissionStatus
	ReviewCount int
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	IncrementMissedReviewsFunc func(ctx context.Context, id uuid.UUID) error

	calls struct {
		IncrementMissedReviews []struct {
			ID uuid.UUID
		}
	}
	lockIncrementMissedReviews sync.RWMutex
}

func (mock *userRepoMock) IncrementMissedReviews(ctx context.Context, id uuid.UUID) error {
	if mock.IncrementMissedReviewsFunc == nil {
		panic("userRepoMock.IncrementMissedReviewsFunc: method is nil but userRepo.IncrementMissedReviews was just called")
	}
	mock.lockIncrementMissedReviews.Lock()
	mock.calls.IncrementMissedReviews = append(mock.calls.IncrementMissedReviews, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lockIncrementMissedReviews.Unlock()
	return mock.IncrementMissedReviewsFunc(ctx, id)
}

func (mock *userRepoMock) IncrementMissedReviewsCalls() []struct {
	ID uuid.UUID
} {
	mock.lockIncrementMissedReviews.RLock()
	calls := mock.calls.IncrementMissedReviews
	mock.lockIncrementMissedReviews.RUnlock()
	return calls
}

var _ notifier = &notifierMock{}

type notifierMock struct {
	ReviewAssignedFunc func(ctx context.Context, reviewerID, submissionID uuid.UUID, url string) error

	calls struct {
		ReviewAssigned []struct {
			ReviewerID   uuid.UUID
			SubmissionID uuid.UUID
			URL          string
		}
	}
	lockReviewAssigned sync.RWMutex
}

func (mock *notifierMock) ReviewAssigned(ctx context.Context, reviewerID, submissionID uuid.UUID, url string) error {
	if mock.ReviewAssignedFunc == nil {
		panic("notifierMock.ReviewAssignedFunc: method is nil but notifier.ReviewAssigned was just called")
	}
	mock.lockReviewAssigned.Lock()
	mock.calls.ReviewAssigned = append(mock.calls.ReviewAssigned, struct {
		ReviewerID   uuid.UUID
		SubmissionID uuid.UUID
		URL          string
	}{ReviewerID: reviewerID, SubmissionID: submissionID, URL: url})
	mock.lockReviewAssigned.Unlock()
	return mock.ReviewAssignedFunc(ctx, reviewerID, submissionID, url)
}

func (mock *notifierMock) ReviewAssignedCalls() []struct {
	ReviewerID   uuid.UUID
	SubmissionID uuid.UUID
	URL          string
} {
	mock.lockReviewAssigned.RLock()
	calls := mock.calls.ReviewAssigned
	mock.lockReviewAssigned.RUnlock()
	return calls
}

var _ auditLogger = &auditLoggerMock{}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, record domain.AuditRecord) error

	calls struct {
		Log []struct {
			Record domain.AuditRecord
		}
	}
	lockLog sync.RWMutex
}

func (mock *auditLoggerMock) Log(ctx context.Context, record domain.AuditRecord) error {
	if mock.LogFunc == nil {
		panic("auditLoggerMock.LogFunc: method is nil but auditLogger.Log was just called")
	}
	mock.lockLog.Lock()
	mock.calls.Log = append(mock.calls.Log, struct {
		Record domain.AuditRecord
	}{Record: record})
	mock.lockLog.Unlock()
	return mock.LogFunc(ctx, record)
}

func (mock *auditLoggerMock) LogCalls() []struct {
	Record domain.AuditRecord
} {
	mock.lockLog.RLock()
	calls := mock.calls.Log
	mock.lockLog.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{}{})
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
