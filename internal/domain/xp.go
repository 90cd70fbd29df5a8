package domain

import (
	"time"

	"github.com/google/uuid"
)

// XpTransaction is an immutable ledger entry. The sum of a user's
// transactions is the authoritative XP total; User.TotalXp is a cache of it.
type XpTransaction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Amount       int
	Type         XpTransactionType
	SubmissionID *uuid.UUID
	WeekNumber   WeekNumber
	Description  string
	CreatedAt    time.Time
}

// WeeklyStats is the per (user, week) aggregate. XpEarned is floored at
// zero on every upsert.
type WeeklyStats struct {
	UserID           uuid.UUID
	WeekNumber       WeekNumber
	XpEarned         int
	ReviewsCompleted int
	ReviewsMissed    int
	UpdatedAt        time.Time
}

// XpDelta carries both the requested and the applied XP change through a
// propagation, so the ledger write and the audit record can log both
// numbers instead of either one alone.
//
// Applied is the change to User.TotalXp and the amount recorded in the
// ledger; the two must move together or the cached total drifts from the
// transaction sum. WeekApplied clamps against CurrentWeekXp independently,
// since the week counter may hold less than the lifetime total.
type XpDelta struct {
	Requested   int
	Applied     int
	WeekApplied int
}

// Clamped reports whether clamping reduced the magnitude of the change.
func (d XpDelta) Clamped() bool { return d.Requested != d.Applied }

// ClampDelta bounds a requested delta so that applying it cannot push
// TotalXp or CurrentWeekXp below zero. Positive deltas pass through
// unchanged; a negative delta's magnitude is capped at the current value
// of each counter.
func ClampDelta(requested, totalXp, weekXp int) XpDelta {
	d := XpDelta{Requested: requested, Applied: requested, WeekApplied: requested}
	if requested >= 0 {
		return d
	}
	d.Applied = -clampMagnitude(-requested, totalXp)
	d.WeekApplied = -clampMagnitude(-requested, weekXp)
	return d
}

func clampMagnitude(magnitude, current int) int {
	if current < 0 {
		return 0
	}
	if current < magnitude {
		return current
	}
	return magnitude
}
