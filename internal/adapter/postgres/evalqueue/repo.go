// Package evalqueue implements the AI evaluation job repository using
// PostgreSQL. Dequeue is claim-based (UPDATE … SKIP LOCKED … RETURNING) so
// multiple worker instances can drain the queue without double-claiming;
// the worker's in-memory guard is a local optimization, not a correctness
// mechanism.
package evalqueue

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

// Repo provides evaluation job persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new evaluation job repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const jobColumns = `id, submission_id, status, attempts, last_error, started_at, created_at, updated_at`

const enqueueSQL = `
INSERT INTO ai_evaluation_jobs (id, submission_id, status, attempts, last_error, created_at, updated_at)
VALUES ($1, $2, 'PENDING', 0, '', now(), now())
RETURNING ` + jobColumns

const claimSQL = `
UPDATE ai_evaluation_jobs
SET status = 'PROCESSING', attempts = attempts + 1, started_at = now(), updated_at = now()
WHERE id IN (
    SELECT id FROM ai_evaluation_jobs
    WHERE status = 'PENDING'
    ORDER BY created_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + jobColumns

const requeueStalledSQL = `
UPDATE ai_evaluation_jobs
SET status = 'PENDING', started_at = NULL, last_error = 'stalled: processing timeout', updated_at = now()
WHERE status = 'PROCESSING' AND started_at < $1 AND attempts < $2`

const failStalledSQL = `
UPDATE ai_evaluation_jobs
SET status = 'FAILED', last_error = 'stalled: processing timeout, retries exhausted', updated_at = now()
WHERE status = 'PROCESSING' AND started_at < $1 AND attempts >= $2
RETURNING ` + jobColumns

const completeSQL = `
UPDATE ai_evaluation_jobs
SET status = 'COMPLETED', last_error = '', updated_at = now()
WHERE id = $1`

const requeueSQL = `
UPDATE ai_evaluation_jobs
SET status = 'PENDING', started_at = NULL, last_error = $2, updated_at = now()
WHERE id = $1`

const failSQL = `
UPDATE ai_evaluation_jobs
SET status = 'FAILED', last_error = $2, updated_at = now()
WHERE id = $1`

const getBySubmissionSQL = `
SELECT ` + jobColumns + `
FROM ai_evaluation_jobs
WHERE submission_id = $1`

// Enqueue creates a PENDING job for a submission. A second enqueue for the
// same submission maps to domain.ErrAlreadyExists.
func (r *Repo) Enqueue(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	job, err := scanJob(q.QueryRow(ctx, enqueueSQL, uuid.New(), submissionID))
	if err != nil {
		return domain.EvaluationJob{}, postgres.MapError(err, "eval_job", submissionID)
	}
	return job, nil
}

// Claim atomically moves up to limit PENDING jobs to PROCESSING and returns
// them, oldest first. Each claim increments the job's attempt counter.
func (r *Repo) Claim(ctx context.Context, limit int) ([]domain.EvaluationJob, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, claimSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("claim eval jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.EvaluationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan eval job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// RequeueStalled returns PROCESSING jobs started before the cutoff to
// PENDING and reports how many were rescued. Only jobs with attempts left
// are rescued; the attempt counter was already incremented at claim time.
func (r *Repo) RequeueStalled(ctx context.Context, startedBefore time.Time, maxAttempts int) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, requeueStalledSQL, startedBefore, maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("requeue stalled eval jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FailStalled terminally fails PROCESSING jobs started before the cutoff
// that have spent their attempt budget, and returns them so the caller can
// route the submissions to manual review. Without this, a job that keeps
// crashing its worker would cycle between PENDING and PROCESSING forever.
func (r *Repo) FailStalled(ctx context.Context, startedBefore time.Time, maxAttempts int) ([]domain.EvaluationJob, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, failStalledSQL, startedBefore, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("fail stalled eval jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.EvaluationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan eval job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Complete marks a job COMPLETED.
func (r *Repo) Complete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, completeSQL, id)
}

// Requeue returns a job to PENDING after a transient failure.
func (r *Repo) Requeue(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.exec(ctx, requeueSQL, id, lastError)
}

// Fail marks a job terminally FAILED.
func (r *Repo) Fail(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.exec(ctx, failSQL, id, lastError)
}

// GetBySubmission returns the job for a submission.
func (r *Repo) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	job, err := scanJob(q.QueryRow(ctx, getBySubmissionSQL, submissionID))
	if err != nil {
		return nil, postgres.MapError(err, "eval_job", submissionID)
	}
	return &job, nil
}

func (r *Repo) exec(ctx context.Context, sql string, id uuid.UUID, args ...any) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return postgres.MapError(err, "eval_job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("eval_job %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanJob(row pgx.Row) (domain.EvaluationJob, error) {
	var j domain.EvaluationJob
	err := row.Scan(
		&j.ID, &j.SubmissionID, &j.Status, &j.Attempts, &j.LastError,
		&j.StartedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}
