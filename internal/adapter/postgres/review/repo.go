// Package review implements the PeerReview repository using PostgreSQL.
// Score dispersion is computed with a database aggregate (stddev_pop) in a
// single round trip alongside the raw scores.
package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides peer review persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new peer review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const reviewColumns = `id, submission_id, reviewer_id, score, category, tier, comments, created_at`

const createSQL = `
INSERT INTO peer_reviews (id, submission_id, reviewer_id, score, category, tier, comments, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + reviewColumns

const getBySubmissionSQL = `
SELECT ` + reviewColumns + `
FROM peer_reviews
WHERE submission_id = $1
ORDER BY created_at`

const dispersionSQL = `
SELECT COALESCE(stddev_pop(score), 0), array_agg(score ORDER BY created_at)
FROM peer_reviews
WHERE submission_id = $1`

// Create inserts a peer review. Reviews are immutable; there is no update.
func (r *Repo) Create(ctx context.Context, pr domain.PeerReview) (domain.PeerReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		pr.ID, pr.SubmissionID, pr.ReviewerID, pr.Score,
		pr.Category, pr.Tier, pr.Comments, pr.CreatedAt,
	)
	created, err := scanReview(row)
	if err != nil {
		return domain.PeerReview{}, postgres.MapError(err, "peer_review", pr.ID)
	}
	return created, nil
}

// GetBySubmission returns all reviews for a submission, oldest first.
func (r *Repo) GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.PeerReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getBySubmissionSQL, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get reviews by submission: %w", err)
	}
	defer rows.Close()

	var out []domain.PeerReview
	for rows.Next() {
		pr, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan peer_review: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// GetScoreDispersion returns the population standard deviation and the raw
// scores for a submission's reviews. No reviews yields StdDev 0 and an
// empty score slice.
func (r *Repo) GetScoreDispersion(ctx context.Context, submissionID uuid.UUID) (domain.ScoreDispersion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var d domain.ScoreDispersion
	if err := q.QueryRow(ctx, dispersionSQL, submissionID).Scan(&d.StdDev, &d.Scores); err != nil {
		return domain.ScoreDispersion{}, fmt.Errorf("score dispersion: %w", err)
	}
	return d, nil
}

func scanReview(row pgx.Row) (domain.PeerReview, error) {
	var pr domain.PeerReview
	err := row.Scan(
		&pr.ID, &pr.SubmissionID, &pr.ReviewerID, &pr.Score,
		&pr.Category, &pr.Tier, &pr.Comments, &pr.CreatedAt,
	)
	return pr, err
}
