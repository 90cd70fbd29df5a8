// Package user implements the User repository using PostgreSQL.
// Only the partial view relevant to the review core is exposed; identity
// sync happens elsewhere.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, username, role, total_xp, current_week_xp, missed_reviews, opt_out_prefs, created_at, updated_at`

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

// getForUpdateSQL locks the row for the duration of the surrounding
// transaction so concurrent propagations serialize per user.
const getForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const updateTotalsSQL = `
UPDATE users
SET total_xp = $2, current_week_xp = $3, updated_at = now()
WHERE id = $1`

const incrementMissedSQL = `
UPDATE users
SET missed_reviews = missed_reviews + 1, updated_at = now()
WHERE id = $1`

const listIDsSQL = `SELECT id FROM users ORDER BY created_at`

// GetByID returns a user by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return &u, nil
}

// GetForUpdate returns a user by ID with a row lock. Must run inside a
// transaction; outside one the lock is released immediately.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getForUpdateSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return &u, nil
}

// UpdateTotals writes the denormalized XP caches. Callers must derive the
// values from the transaction ledger inside the same DB transaction.
func (r *Repo) UpdateTotals(ctx context.Context, id uuid.UUID, totalXp, currentWeekXp int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateTotalsSQL, id, totalXp, currentWeekXp)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// IncrementMissedReviews bumps the missed-review counter after a
// reassignment for cause.
func (r *Repo) IncrementMissedReviews(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, incrementMissedSQL, id)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListIDs returns all user IDs, oldest account first. Used by the ledger
// reconciliation command.
func (r *Repo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u   domain.User
		raw []byte
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Role, &u.TotalXp, &u.CurrentWeekXp,
		&u.MissedReviews, &raw, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.OptOut, _ = domain.ParseOptOutPrefs(raw)
	return u, nil
}
