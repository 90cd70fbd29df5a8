package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the given role and XP totals.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole, totalXp int) domain.User {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:            uuid.New(),
		Username:      "testuser-" + uniqueSuffix(),
		Role:          role,
		TotalXp:       totalXp,
		CurrentWeekXp: totalXp,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, role, total_xp, current_week_xp, missed_reviews, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Role, user.TotalXp, user.CurrentWeekXp, user.MissedReviews, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedSubmission creates a submission for the given author in the given status.
func SeedSubmission(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, status domain.SubmissionStatus) domain.Submission {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sub := domain.Submission{
		ID:         uuid.New(),
		AuthorID:   authorID,
		URL:        "https://example.com/post/" + uniqueSuffix(),
		Platform:   "twitter",
		Status:     status,
		WeekNumber: domain.WeekOf(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO submissions (id, author_id, url, platform, status, ai_xp, peer_xp, review_count, week_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, 0, 0, 0, $6, $7, $7)`,
		sub.ID, sub.AuthorID, sub.URL, sub.Platform, sub.Status, int(sub.WeekNumber), sub.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubmission insert: %v", err)
	}

	return sub
}
