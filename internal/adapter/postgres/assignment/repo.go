// Package assignment implements the ReviewAssignment repository using PostgreSQL.
//
// The uq_assignments_active partial unique index guarantees at most one
// non-REASSIGNED assignment per (submission, reviewer). Create inserts with
// ON CONFLICT DO NOTHING against that index and reports the no-op as
// domain.ErrAlreadyExists: a raised unique violation would abort the
// surrounding transaction, which the allocator keeps open to count and
// promote after swallowing duplicates.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides review assignment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assignment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const assignmentColumns = `id, submission_id, reviewer_id, status, deadline, assigned_at`

const createSQL = `
INSERT INTO review_assignments (id, submission_id, reviewer_id, status, deadline, assigned_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (submission_id, reviewer_id) WHERE status <> 'REASSIGNED' DO NOTHING
RETURNING ` + assignmentColumns

const getActiveBySubmissionSQL = `
SELECT ` + assignmentColumns + `
FROM review_assignments
WHERE submission_id = $1 AND status <> 'REASSIGNED'
ORDER BY assigned_at`

const countActiveBySubmissionSQL = `
SELECT count(*) FROM review_assignments
WHERE submission_id = $1 AND status <> 'REASSIGNED'`

const markCompletedSQL = `
UPDATE review_assignments
SET status = 'COMPLETED'
WHERE submission_id = $1 AND reviewer_id = $2 AND status = 'PENDING'`

const markReassignedSQL = `
UPDATE review_assignments
SET status = 'REASSIGNED'
WHERE id = $1 AND status = 'PENDING'`

const listOverdueSQL = `
SELECT ` + assignmentColumns + `
FROM review_assignments
WHERE status = 'PENDING' AND deadline < $1
ORDER BY deadline
LIMIT $2`

// Create inserts one assignment. An existing active (submission, reviewer)
// pair makes the insert a no-op, reported as domain.ErrAlreadyExists without
// aborting the caller's transaction.
func (r *Repo) Create(ctx context.Context, a domain.ReviewAssignment) (domain.ReviewAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL, a.ID, a.SubmissionID, a.ReviewerID, a.Status, a.Deadline, a.AssignedAt)
	created, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returned no row: the pair already has an
		// active assignment.
		return domain.ReviewAssignment{}, fmt.Errorf("assignment %s/%s: %w", a.SubmissionID, a.ReviewerID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return domain.ReviewAssignment{}, postgres.MapError(err, "assignment", a.ID)
	}
	return created, nil
}

// GetActiveBySubmission returns all non-REASSIGNED assignments for a submission.
func (r *Repo) GetActiveBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.ReviewAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getActiveBySubmissionSQL, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get active assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.ReviewAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountActiveBySubmission returns the number of non-REASSIGNED assignments.
func (r *Repo) CountActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countActiveBySubmissionSQL, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active assignments: %w", err)
	}
	return count, nil
}

// MarkCompleted transitions a pending assignment to COMPLETED when the
// reviewer submits a score.
func (r *Repo) MarkCompleted(ctx context.Context, submissionID, reviewerID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markCompletedSQL, submissionID, reviewerID)
	if err != nil {
		return postgres.MapError(err, "assignment", submissionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s/%s: %w", submissionID, reviewerID, domain.ErrNotFound)
	}
	return nil
}

// MarkReassigned replaces a pending assignment, freeing the pair for a new
// active assignment.
func (r *Repo) MarkReassigned(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markReassignedSQL, id)
	if err != nil {
		return postgres.MapError(err, "assignment", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListOverdue returns pending assignments whose deadline passed before now.
func (r *Repo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listOverdueSQL, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.ReviewAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(row pgx.Row) (domain.ReviewAssignment, error) {
	var a domain.ReviewAssignment
	err := row.Scan(&a.ID, &a.SubmissionID, &a.ReviewerID, &a.Status, &a.Deadline, &a.AssignedAt)
	return a, err
}
