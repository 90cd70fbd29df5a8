package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewAssignment represents one reviewer's obligation to review one
// submission. At most one assignment with an active status may exist per
// (submission, reviewer) pair; the database enforces this with a partial
// unique index.
type ReviewAssignment struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	ReviewerID   uuid.UUID
	Status       AssignmentStatus
	Deadline     time.Time
	AssignedAt   time.Time
}

// IsOverdue reports whether a still-pending assignment has passed its deadline.
func (a *ReviewAssignment) IsOverdue(now time.Time) bool {
	return a.Status == AssignmentStatusPending && now.After(a.Deadline)
}

// PeerReview is a completed review. Immutable once created.
type PeerReview struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	ReviewerID   uuid.UUID
	Score        int
	// Category and Tier are optional qualitative tags; empty means the
	// reviewer did not classify the content.
	Category  string
	Tier      string
	Comments  string
	CreatedAt time.Time
}

// ScoreDispersion is the statistical summary of a submission's review
// scores: population standard deviation plus the raw scores, oldest first.
type ScoreDispersion struct {
	StdDev float64
	Scores []int
}

// ReviewerCandidate is a computed, non-persisted view of a user for
// allocation purposes, built fresh from User + ReviewAssignment aggregates
// on each allocation request.
type ReviewerCandidate struct {
	UserID            uuid.UUID
	Role              UserRole
	TotalXp           int
	MissedReviews     int
	ActiveAssignments int
	OptOut            OptOutPrefs
	// OptOutMalformed marks candidates whose stored preference blob failed
	// to decode (treated as not opted out, logged by the allocator).
	OptOutMalformed bool
}
