// Package reviewer builds ReviewerCandidate snapshots for the allocation
// service. The candidate query is assembled dynamically with squirrel since
// the exclusion set varies per request.
package reviewer

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo computes reviewer candidate snapshots from users + assignment aggregates.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new reviewer candidate repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Candidates returns a fresh snapshot of every user not in the exclusion set,
// with their current active-assignment count. Eligibility rules and ranking
// are applied by the caller; this query only does the cheap set exclusion so
// the author and already-assigned reviewers never leave the database.
func (r *Repo) Candidates(ctx context.Context, exclude []uuid.UUID) ([]domain.ReviewerCandidate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := r.sb.
		Select(
			"u.id",
			"u.role",
			"u.total_xp",
			"u.missed_reviews",
			"u.opt_out_prefs",
			"COALESCE(a.active_count, 0) AS active_count",
		).
		From("users u").
		LeftJoin(`(
			SELECT reviewer_id, count(*) AS active_count
			FROM review_assignments
			WHERE status = 'PENDING'
			GROUP BY reviewer_id
		) a ON a.reviewer_id = u.id`)

	if len(exclude) > 0 {
		builder = builder.Where(sq.NotEq{"u.id": exclude})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidates query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.ReviewerCandidate
	for rows.Next() {
		var (
			c   domain.ReviewerCandidate
			raw []byte
		)
		if err := rows.Scan(&c.UserID, &c.Role, &c.TotalXp, &c.MissedReviews, &raw, &c.ActiveAssignments); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		// Malformed preference blobs fail open; the allocator logs them.
		c.OptOut, c.OptOutMalformed = domain.ParseOptOutPrefs(raw)
		out = append(out, c)
	}
	return out, rows.Err()
}
