package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationJob drives one submission through automated scoring.
// Jobs are claimed atomically by the worker (UPDATE … RETURNING with row
// locking), so multiple worker instances can run safely.
type EvaluationJob struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	Status       EvalJobStatus
	Attempts     int
	LastError    string
	StartedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStalled reports whether a PROCESSING job has exceeded the stall
// timeout and should be re-queued.
func (j *EvaluationJob) IsStalled(now time.Time, timeout time.Duration) bool {
	if j.Status != EvalJobStatusProcessing || j.StartedAt == nil {
		return false
	}
	return now.Sub(*j.StartedAt) > timeout
}

// EvaluationResult is the content scoring oracle's verdict for a submission.
type EvaluationResult struct {
	TaskTypes        []string
	BaseXp           int
	OriginalityScore float64
	QualityScore     float64
	Confidence       float64
	Reasoning        string
}
