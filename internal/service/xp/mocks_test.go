package xp

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

var _ submissionRepo = &submissionRepoMock{}

type submissionRepoMock struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	SetFinalXpFunc func(ctx context.Context, id uuid.UUID, finalXp int) error

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
		SetFinalXp []struct {
			ID      uuid.UUID
			FinalXp int
		}
	}
	lockGetByID    sync.RWMutex
	lockSetFinalXp sync.RWMutex
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

func (mock *submissionRepoMock) SetFinalXp(ctx context.Context, id uuid.UUID, finalXp int) error {
	if mock.SetFinalXpFunc == nil {
		panic("submissionRepoMock.SetFinalXpFunc: method is nil but submissionRepo.SetFinalXp was just called")
	}
	mock.lockSetFinalXp.Lock()
	mock.calls.SetFinalXp = append(mock.calls.SetFinalXp, struct {
		ID      uuid.UUID
		FinalXp int
	}{ID: id, FinalXp: finalXp})
	mock.lockSetFinalXp.Unlock()
	return mock.SetFinalXpFunc(ctx, id, finalXp)
}

func (mock *submissionRepoMock) SetFinalXpCalls() []struct {
	ID      uuid.UUID
	FinalXp int
} {
	mock.lockSetFinalXp.RLock()
	calls := mock.calls.SetFinalXp
	mock.lockSetFinalXp.RUnlock()
	return calls
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateTotalsFunc func(ctx context.Context, id uuid.UUID, totalXp, currentWeekXp int) error
	ListIDsFunc      func(ctx context.Context) ([]uuid.UUID, error)

	calls struct {
		GetForUpdate []struct {
			ID uuid.UUID
		}
		UpdateTotals []struct {
			ID            uuid.UUID
			TotalXp       int
			CurrentWeekXp int
		}
		ListIDs []struct{}
	}
	lockGetForUpdate sync.RWMutex
	lockUpdateTotals sync.RWMutex
	lockListIDs      sync.RWMutex
}

func (mock *userRepoMock) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetForUpdateFunc == nil {
		panic("userRepoMock.GetForUpdateFunc: method is nil but userRepo.GetForUpdate was just called")
	}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, id)
}

func (mock *userRepoMock) GetForUpdateCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *userRepoMock) UpdateTotals(ctx context.Context, id uuid.UUID, totalXp, currentWeekXp int) error {
	if mock.UpdateTotalsFunc == nil {
		panic("userRepoMock.UpdateTotalsFunc: method is nil but userRepo.UpdateTotals was just called")
	}
	mock.lockUpdateTotals.Lock()
	mock.calls.UpdateTotals = append(mock.calls.UpdateTotals, struct {
		ID            uuid.UUID
		TotalXp       int
		CurrentWeekXp int
	}{ID: id, TotalXp: totalXp, CurrentWeekXp: currentWeekXp})
	mock.lockUpdateTotals.Unlock()
	return mock.UpdateTotalsFunc(ctx, id, totalXp, currentWeekXp)
}

func (mock *userRepoMock) UpdateTotalsCalls() []struct {
	ID            uuid.UUID
	TotalXp       int
	CurrentWeekXp int
} {
	mock.lockUpdateTotals.RLock()
	calls := mock.calls.UpdateTotals
	mock.lockUpdateTotals.RUnlock()
	return calls
}

func (mock *userRepoMock) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if mock.ListIDsFunc == nil {
		panic("userRepoMock.ListIDsFunc: method is nil but userRepo.ListIDs was just called")
	}
	mock.lockListIDs.Lock()
	mock.calls.ListIDs = append(mock.calls.ListIDs, struct{}{})
	mock.lockListIDs.Unlock()
	return mock.ListIDsFunc(ctx)
}

var _ ledgerRepo = &ledgerRepoMock{}

type ledgerRepoMock struct {
	CreateTransactionFunc func(ctx context.Context, t domain.XpTransaction) (domain.XpTransaction, error)
	SumByUserFunc         func(ctx context.Context, userID uuid.UUID) (int, error)
	SumByUserWeekFunc     func(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (int, error)
	UpsertWeeklyFunc      func(ctx context.Context, userID uuid.UUID, week domain.WeekNumber, xpDelta, completedDelta, missedDelta int) error

	calls struct {
		CreateTransaction []struct {
			T domain.XpTransaction
		}
		SumByUser []struct {
			UserID uuid.UUID
		}
		SumByUserWeek []struct {
			UserID uuid.UUID
			Week   domain.WeekNumber
		}
		UpsertWeekly []struct {
			UserID         uuid.UUID
			Week           domain.WeekNumber
			XpDelta        int
			CompletedDelta int
			MissedDelta    int
		}
	}
	lockCreateTransaction sync.RWMutex
	lockSumByUser         sync.RWMutex
	lockSumByUserWeek     sync.RWMutex
	lockUpsertWeekly      sync.RWMutex
}

func (mock *ledgerRepoMock) CreateTransaction(ctx context.Context, t domain.XpTransaction) (domain.XpTransaction, error) {
	if mock.CreateTransactionFunc == nil {
		panic("ledgerRepoMock.CreateTransactionFunc: method is nil but ledgerRepo.CreateTransaction was just called")
	}
	mock.lockCreateTransaction.Lock()
	mock.calls.CreateTransaction = append(mock.calls.CreateTransaction, struct {
		T domain.XpTransaction
	}{T: t})
	mock.lockCreateTransaction.Unlock()
	return mock.CreateTransactionFunc(ctx, t)
}

func (mock *ledgerRepoMock) CreateTransactionCalls() []struct {
	T domain.XpTransaction
} {
	mock.lockCreateTransaction.RLock()
	calls := mock.calls.CreateTransaction
	mock.lockCreateTransaction.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if mock.SumByUserFunc == nil {
		panic("ledgerRepoMock.SumByUserFunc: method is nil but ledgerRepo.SumByUser was just called")
	}
	mock.lockSumByUser.Lock()
	mock.calls.SumByUser = append(mock.calls.SumByUser, struct {
		UserID uuid.UUID
	}{UserID: userID})
	mock.lockSumByUser.Unlock()
	return mock.SumByUserFunc(ctx, userID)
}

func (mock *ledgerRepoMock) SumByUserWeek(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (int, error) {
	if mock.SumByUserWeekFunc == nil {
		panic("ledgerRepoMock.SumByUserWeekFunc: method is nil but ledgerRepo.SumByUserWeek was just called")
	}
	mock.lockSumByUserWeek.Lock()
	mock.calls.SumByUserWeek = append(mock.calls.SumByUserWeek, struct {
		UserID uuid.UUID
		Week   domain.WeekNumber
	}{UserID: userID, Week: week})
	mock.lockSumByUserWeek.Unlock()
	return mock.SumByUserWeekFunc(ctx, userID, week)
}

func (mock *ledgerRepoMock) UpsertWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber, xpDelta, completedDelta, missedDelta int) error {
	if mock.UpsertWeeklyFunc == nil {
		panic("ledgerRepoMock.UpsertWeeklyFunc: method is nil but ledgerRepo.UpsertWeekly was just called")
	}
	mock.lockUpsertWeekly.Lock()
	mock.calls.UpsertWeekly = append(mock.calls.UpsertWeekly, struct {
		UserID         uuid.UUID
		Week           domain.WeekNumber
		XpDelta        int
		CompletedDelta int
		MissedDelta    int
	}{UserID: userID, Week: week, XpDelta: xpDelta, CompletedDelta: completedDelta, MissedDelta: missedDelta})
	mock.lockUpsertWeekly.Unlock()
	return mock.UpsertWeeklyFunc(ctx, userID, week, xpDelta, completedDelta, missedDelta)
}

func (mock *ledgerRepoMock) UpsertWeeklyCalls() []struct {
	UserID         uuid.UUID
	Week           domain.WeekNumber
	XpDelta        int
	CompletedDelta int
	MissedDelta    int
} {
	mock.lockUpsertWeekly.RLock()
	calls := mock.calls.UpsertWeekly
	mock.lockUpsertWeekly.RUnlock()
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

var _ notifier = &notifierMock{}

type notifierMock struct {
	XpAdjustedFunc func(ctx context.Context, userID uuid.UUID, applied int, reason string) error

	calls struct {
		XpAdjusted []struct {
			UserID  uuid.UUID
			Applied int
			Reason  string
		}
	}
	lockXpAdjusted sync.RWMutex
}

func (mock *notifierMock) XpAdjusted(ctx context.Context, userID uuid.UUID, applied int, reason string) error {
	if mock.XpAdjustedFunc == nil {
		panic("notifierMock.XpAdjustedFunc: method is nil but notifier.XpAdjusted was just called")
	}
	mock.lockXpAdjusted.Lock()
	mock.calls.XpAdjusted = append(mock.calls.XpAdjusted, struct {
		UserID  uuid.UUID
		Applied int
		Reason  string
	}{UserID: userID, Applied: applied, Reason: reason})
	mock.lockXpAdjusted.Unlock()
	return mock.XpAdjustedFunc(ctx, userID, applied, reason)
}

func (mock *notifierMock) XpAdjustedCalls() []struct {
	UserID  uuid.UUID
	Applied int
	Reason  string
} {
	mock.lockXpAdjusted.RLock()
	calls := mock.calls.XpAdjusted
	mock.lockXpAdjusted.RUnlock()
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
