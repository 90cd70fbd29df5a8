// Package submission implements the Submission repository using PostgreSQL.
package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides submission persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new submission repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const submissionColumns = `id, author_id, url, platform, status, ai_xp, ai_reasoning, peer_xp, final_xp, review_count, week_number, created_at, updated_at`

const createSQL = `
INSERT INTO submissions (id, author_id, url, platform, status, ai_xp, ai_reasoning, peer_xp, final_xp, review_count, week_number, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
RETURNING ` + submissionColumns

const getByIDSQL = `
SELECT ` + submissionColumns + `
FROM submissions
WHERE id = $1`

const updateStatusSQL = `
UPDATE submissions
SET status = $2, review_count = $3, updated_at = now()
WHERE id = $1
RETURNING ` + submissionColumns

const setAiXpSQL = `
UPDATE submissions
SET ai_xp = $2, ai_reasoning = $3, status = $4, updated_at = now()
WHERE id = $1`

const setFinalXpSQL = `
UPDATE submissions
SET final_xp = $2, status = $3, updated_at = now()
WHERE id = $1`

const resetForManualReviewSQL = `
UPDATE submissions
SET status = $2, updated_at = now()
WHERE id = $1`

const listFinalizedSinceSQL = `
SELECT ` + submissionColumns + `
FROM submissions
WHERE status = 'FINALIZED' AND review_count >= 2 AND updated_at >= $1
ORDER BY updated_at DESC
LIMIT $2`

// Create inserts a new submission in its intake state.
func (r *Repo) Create(ctx context.Context, s domain.Submission) (domain.Submission, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		s.ID, s.AuthorID, s.URL, s.Platform, s.Status,
		s.AiXp, s.AiReasoning, s.PeerXp, s.FinalXp, s.ReviewCount, int(s.WeekNumber), s.CreatedAt,
	)
	created, err := scanSubmission(row)
	if err != nil {
		return domain.Submission{}, postgres.MapError(err, "submission", s.ID)
	}
	return created, nil
}

// GetByID returns a submission by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSubmission(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "submission", id)
	}
	return &s, nil
}

// UpdateStatus transitions the submission's lifecycle status and records the
// new total assignment count.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewCount int) (*domain.Submission, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSubmission(q.QueryRow(ctx, updateStatusSQL, id, status, reviewCount))
	if err != nil {
		return nil, postgres.MapError(err, "submission", id)
	}
	return &s, nil
}

// SetAiXp records the automated score and moves the submission to the given
// status (AI_REVIEWED for real scores, also used by the kill-switch bypass).
func (r *Repo) SetAiXp(ctx context.Context, id uuid.UUID, aiXp int, reasoning string, status domain.SubmissionStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setAiXpSQL, id, aiXp, reasoning, status)
	if err != nil {
		return postgres.MapError(err, "submission", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetFinalXp writes the resolved final XP and the terminal status.
func (r *Repo) SetFinalXp(ctx context.Context, id uuid.UUID, finalXp int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setFinalXpSQL, id, finalXp, domain.SubmissionStatusFinalized)
	if err != nil {
		return postgres.MapError(err, "submission", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ResetForManualReview routes a submission that the evaluation pipeline gave
// up on back to an admin queue instead of dropping it.
func (r *Repo) ResetForManualReview(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, resetForManualReviewSQL, id, domain.SubmissionStatusNeedsManualReview)
	if err != nil {
		return postgres.MapError(err, "submission", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListFinalizedSince returns finalized multi-review submissions updated after
// the given instant, newest first. Used by the dispute dashboard scan.
func (r *Repo) ListFinalizedSince(ctx context.Context, since time.Time, limit int) ([]domain.Submission, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listFinalizedSinceSQL, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list finalized submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubmission(row pgx.Row) (domain.Submission, error) {
	var (
		s    domain.Submission
		week int
	)
	err := row.Scan(
		&s.ID, &s.AuthorID, &s.URL, &s.Platform, &s.Status,
		&s.AiXp, &s.AiReasoning, &s.PeerXp, &s.FinalXp, &s.ReviewCount, &week,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Submission{}, err
	}
	s.WeekNumber = domain.WeekNumber(week)
	return s, nil
}
