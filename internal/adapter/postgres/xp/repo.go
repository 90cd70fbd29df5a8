// Package xp implements the XP ledger and weekly aggregate repositories
// using PostgreSQL. Transactions are append-only; the weekly upsert floors
// the stored total at zero to match the table's CHECK constraint.
package xp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides XP ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new XP repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const transactionColumns = `id, user_id, amount, type, submission_id, week_number, description, created_at`

const createTransactionSQL = `
INSERT INTO xp_transactions (id, user_id, amount, type, submission_id, week_number, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + transactionColumns

const listByUserSQL = `
SELECT ` + transactionColumns + `
FROM xp_transactions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const sumByUserSQL = `
SELECT COALESCE(sum(amount), 0) FROM xp_transactions WHERE user_id = $1`

const sumByUserWeekSQL = `
SELECT COALESCE(sum(amount), 0) FROM xp_transactions WHERE user_id = $1 AND week_number = $2`

// upsertWeeklySQL increments xp_earned by the raw delta but floors the
// stored total at zero (greatest), per the aggregate's non-negative rule.
const upsertWeeklySQL = `
INSERT INTO weekly_stats (user_id, week_number, xp_earned, reviews_completed, reviews_missed, updated_at)
VALUES ($1, $2, greatest($3, 0), $4, $5, now())
ON CONFLICT (user_id, week_number) DO UPDATE
SET xp_earned         = greatest(weekly_stats.xp_earned + $3, 0),
    reviews_completed = weekly_stats.reviews_completed + $4,
    reviews_missed    = weekly_stats.reviews_missed + $5,
    updated_at        = now()`

const getWeeklySQL = `
SELECT user_id, week_number, xp_earned, reviews_completed, reviews_missed, updated_at
FROM weekly_stats
WHERE user_id = $1 AND week_number = $2`

// CreateTransaction appends a ledger entry.
func (r *Repo) CreateTransaction(ctx context.Context, t domain.XpTransaction) (domain.XpTransaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createTransactionSQL,
		t.ID, t.UserID, t.Amount, t.Type, t.SubmissionID,
		int(t.WeekNumber), t.Description, t.CreatedAt,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return domain.XpTransaction{}, postgres.MapError(err, "xp_transaction", t.ID)
	}
	return created, nil
}

// ListByUser returns a user's ledger entries, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.XpTransaction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list xp_transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.XpTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan xp_transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumByUser returns the authoritative ledger total for a user.
func (r *Repo) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var sum int
	if err := q.QueryRow(ctx, sumByUserSQL, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum xp_transactions: %w", err)
	}
	return sum, nil
}

// SumByUserWeek returns the ledger total for a user within one week.
func (r *Repo) SumByUserWeek(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var sum int
	if err := q.QueryRow(ctx, sumByUserWeekSQL, userID, int(week)).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum xp_transactions by week: %w", err)
	}
	return sum, nil
}

// UpsertWeekly increments the per (user, week) aggregate. The XP increment
// is the raw (unclamped) delta; the stored total is floored at zero.
func (r *Repo) UpsertWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber, xpDelta, completedDelta, missedDelta int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, upsertWeeklySQL, userID, int(week), xpDelta, completedDelta, missedDelta); err != nil {
		return postgres.MapError(err, "weekly_stats", userID)
	}
	return nil
}

// GetWeekly returns the aggregate row for one (user, week) pair.
func (r *Repo) GetWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (*domain.WeeklyStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		ws domain.WeeklyStats
		w  int
	)
	err := q.QueryRow(ctx, getWeeklySQL, userID, int(week)).Scan(
		&ws.UserID, &w, &ws.XpEarned, &ws.ReviewsCompleted, &ws.ReviewsMissed, &ws.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "weekly_stats", userID)
	}
	ws.WeekNumber = domain.WeekNumber(w)
	return &ws, nil
}

func scanTransaction(row pgx.Row) (domain.XpTransaction, error) {
	var (
		t    domain.XpTransaction
		week int
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.SubmissionID,
		&week, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		return domain.XpTransaction{}, err
	}
	t.WeekNumber = domain.WeekNumber(week)
	return t, nil
}
