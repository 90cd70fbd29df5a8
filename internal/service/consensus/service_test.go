package consensus

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

var _ reviewRepo = &reviewRepoMock{}

type reviewRepoMock struct {
	GetBySubmissionFunc    func(ctx context.Context, submissionID uuid.UUID) ([]domain.PeerReview, error)
	GetScoreDispersionFunc func(ctx context.Context, submissionID uuid.UUID) (domain.ScoreDispersion, error)

	calls struct {
		GetBySubmission    []struct{ SubmissionID uuid.UUID }
		GetScoreDispersion []struct{ SubmissionID uuid.UUID }
	}
	lockGetBySubmission    sync.RWMutex
	lockGetScoreDispersion sync.RWMutex
}

func (mock *reviewRepoMock) GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.PeerReview, error) {
	if mock.GetBySubmissionFunc == nil {
		panic("reviewRepoMock.GetBySubmissionFunc: method is nil but reviewRepo.GetBySubmission was just called")
	}
	mock.lockGetBySubmission.Lock()
	mock.calls.GetBySubmission = append(mock.calls.GetBySubmission, struct{ SubmissionID uuid.UUID }{submissionID})
	mock.lockGetBySubmission.Unlock()
	return mock.GetBySubmissionFunc(ctx, submissionID)
}

func (mock *reviewRepoMock) GetBySubmissionCalls() []struct{ SubmissionID uuid.UUID } {
	mock.lockGetBySubmission.RLock()
	calls := mock.calls.GetBySubmission
	mock.lockGetBySubmission.RUnlock()
	return calls
}

func (mock *reviewRepoMock) GetScoreDispersion(ctx context.Context, submissionID uuid.UUID) (domain.ScoreDispersion, error) {
	if mock.GetScoreDispersionFunc == nil {
		panic("reviewRepoMock.GetScoreDispersionFunc: method is nil but reviewRepo.GetScoreDispersion was just called")
	}
	mock.lockGetScoreDispersion.Lock()
	mock.calls.GetScoreDispersion = append(mock.calls.GetScoreDispersion, struct{ SubmissionID uuid.UUID }{submissionID})
	mock.lockGetScoreDispersion.Unlock()
	return mock.GetScoreDispersionFunc(ctx, submissionID)
}

func (mock *reviewRepoMock) GetScoreDispersionCalls() []struct{ SubmissionID uuid.UUID } {
	mock.lockGetScoreDispersion.RLock()
	calls := mock.calls.GetScoreDispersion
	mock.lockGetScoreDispersion.RUnlock()
	return calls
}

var _ submissionRepo = &submissionRepoMock{}

type submissionRepoMock struct {
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	ListFinalizedSinceFunc func(ctx context.Context, since time.Time, limit int) ([]domain.Submission, error)

	calls struct {
		GetByID            []struct{ ID uuid.UUID }
		ListFinalizedSince []struct {
			Since time.Time
			Limit int
		}
	}
	lockGetByID            sync.RWMutex
	lockListFinalizedSince sync.RWMutex
}

func (mock *submissionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	if mock.GetByIDFunc == nil {
		panic("submissionRepoMock.GetByIDFunc: method is nil but submissionRepo.GetByID was just called")
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID uuid.UUID }{id})
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *submissionRepoMock) ListFinalizedSince(ctx context.Context, since time.Time, limit int) ([]domain.Submission, error) {
	if mock.ListFinalizedSinceFunc == nil {
		panic("submissionRepoMock.ListFinalizedSinceFunc: method is nil but submissionRepo.ListFinalizedSince was just called")
	}
	mock.lockListFinalizedSince.Lock()
	mock.calls.ListFinalizedSince = append(mock.calls.ListFinalizedSince, struct {
		Since time.Time
		Limit int
	}{Since: since, Limit: limit})
	mock.lockListFinalizedSince.Unlock()
	return mock.ListFinalizedSinceFunc(ctx, since, limit)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func testConsensusConfig() config.ConsensusConfig {
	return config.ConsensusConfig{
		StdDevThreshold: 50,
		SpamLow:         0,
		SpamHigh:        150,
		Lookback:        2160 * time.Hour,
	}
}

func newTestService(reviews reviewRepo, submissions submissionRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, reviews, submissions, testConsensusConfig())
}

func finalized(id uuid.UUID) *domain.Submission {
	xp := 100
	return &domain.Submission{
		ID:       id,
		AuthorID: uuid.New(),
		Status:   domain.SubmissionStatusFinalized,
		FinalXp:  &xp,
	}
}

func TestService_Detect_SpamDispute(t *testing.T) {
	t.Parallel()

	submissionID := uuid.New()
	scores := []int{0, 180}

	reviewsRepo := &reviewRepoMock{
		GetScoreDispersionFunc: func(ctx context.Context, id uuid.UUID) (domain.ScoreDispersion, error) {
			return domain.ScoreDispersion{StdDev: StdDevPop(scores), Scores: scores}, nil
		},
		GetBySubmissionFunc: func(ctx context.Context, id uuid.UUID) ([]domain.PeerReview, error) {
			return []domain.PeerReview{
				{Score: 0, Category: "meme"},
				{Score: 180, Category: "meme"},
			}, nil
		},
	}
	subs := &submissionRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return finalized(id), nil
		},
	}

	svc := newTestService(reviewsRepo, subs)
	verdict, err := svc.Detect(context.Background(), submissionID)

	require.NoError(t, err)
	assert.True(t, verdict.Divergent)
	assert.Equal(t, domain.ConflictTypeSpamDispute, verdict.ConflictType)
	assert.InDelta(t, 90.0, verdict.StdDev, 0.001)
}

func TestService_Detect_NotFinalized(t *testing.T) {
	t.Parallel()

	subs := &submissionRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return &domain.Submission{ID: id, Status: domain.SubmissionStatusUnderPeerReview}, nil
		},
	}

	svc := newTestService(&reviewRepoMock{}, subs)
	verdict, err := svc.Detect(context.Background(), uuid.New())

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Nil(t, verdict)
}

func TestService_Detect_AgreementIsNotDivergent(t *testing.T) {
	t.Parallel()

	reviewsRepo := &reviewRepoMock{
		GetScoreDispersionFunc: func(ctx context.Context, id uuid.UUID) (domain.ScoreDispersion, error) {
			return domain.ScoreDispersion{StdDev: 8.2, Scores: []int{80, 90, 100}}, nil
		},
		GetBySubmissionFunc: func(ctx context.Context, id uuid.UUID) ([]domain.PeerReview, error) {
			return []domain.PeerReview{{Score: 80}, {Score: 90}, {Score: 100}}, nil
		},
	}
	subs := &submissionRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return finalized(id), nil
		},
	}

	svc := newTestService(reviewsRepo, subs)
	verdict, err := svc.Detect(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, verdict.Divergent)
	assert.Empty(t, verdict.ConflictType)
}

func TestService_ListDisputes_FiltersConvergent(t *testing.T) {
	t.Parallel()

	divergentID := uuid.New()
	convergentID := uuid.New()

	scoresByID := map[uuid.UUID][]int{
		divergentID:  {20, 100, 300},
		convergentID: {80, 90, 100},
	}

	reviewsRepo := &reviewRepoMock{
		GetScoreDispersionFunc: func(ctx context.Context, id uuid.UUID) (domain.ScoreDispersion, error) {
			scores := scoresByID[id]
			return domain.ScoreDispersion{StdDev: StdDevPop(scores), Scores: scores}, nil
		},
		GetBySubmissionFunc: func(ctx context.Context, id uuid.UUID) ([]domain.PeerReview, error) {
			var out []domain.PeerReview
			for _, s := range scoresByID[id] {
				out = append(out, domain.PeerReview{Score: s})
			}
			return out, nil
		},
	}
	subs := &submissionRepoMock{
		ListFinalizedSinceFunc: func(ctx context.Context, since time.Time, limit int) ([]domain.Submission, error) {
			return []domain.Submission{*finalized(divergentID), *finalized(convergentID)}, nil
		},
	}

	svc := newTestService(reviewsRepo, subs)
	disputes, err := svc.ListDisputes(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, divergentID, disputes[0].SubmissionID)
	assert.Equal(t, domain.ConflictTypeGeneral, disputes[0].Verdict.ConflictType)
	// The convergent submission was filtered on the cheap dispersion check
	// before its reviews were loaded.
	assert.Len(t, reviewsRepo.GetBySubmissionCalls(), 1)
}
