package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents one piece of user-generated content under review.
//
// FinalXp stays nil until the submission reaches a terminal state; the
// XP propagation engine is the only writer after the initial award.
type Submission struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	URL         string
	Platform    string
	Status      SubmissionStatus
	AiXp        int
	// AiReasoning is the scoring oracle's explanation, or a bypass note
	// when the evaluation kill switch skipped scoring entirely.
	AiReasoning string
	PeerXp      int
	FinalXp     *int
	ReviewCount int
	WeekNumber  WeekNumber
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsFinalized reports whether the submission has a resolved final XP.
func (s *Submission) IsFinalized() bool {
	return s.Status.IsTerminal() && s.FinalXp != nil
}
