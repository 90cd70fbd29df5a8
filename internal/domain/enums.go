package domain

// SubmissionStatus represents the lifecycle state of a submission.
type SubmissionStatus string

const (
	// SubmissionStatusPending is the intake state before AI evaluation.
	SubmissionStatusPending SubmissionStatus = "PENDING"
	// SubmissionStatusAIReviewed means automated scoring completed.
	SubmissionStatusAIReviewed SubmissionStatus = "AI_REVIEWED"
	// SubmissionStatusUnderPeerReview means reviewer assignments exist.
	SubmissionStatusUnderPeerReview SubmissionStatus = "UNDER_PEER_REVIEW"
	// SubmissionStatusFinalized is terminal; finalXp is set.
	SubmissionStatusFinalized SubmissionStatus = "FINALIZED"
	// SubmissionStatusNeedsManualReview marks submissions routed to an
	// admin after the evaluation pipeline gave up on them.
	SubmissionStatusNeedsManualReview SubmissionStatus = "NEEDS_MANUAL_REVIEW"
)

func (s SubmissionStatus) String() string { return string(s) }

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusAIReviewed,
		SubmissionStatusUnderPeerReview, SubmissionStatusFinalized,
		SubmissionStatusNeedsManualReview:
		return true
	}
	return false
}

// IsTerminal reports whether finalXp may be written in this state.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusFinalized
}

// AssignmentStatus represents the state of a review assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusCompleted  AssignmentStatus = "COMPLETED"
	AssignmentStatusReassigned AssignmentStatus = "REASSIGNED"
)

func (s AssignmentStatus) String() string { return string(s) }

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusCompleted, AssignmentStatusReassigned:
		return true
	}
	return false
}

// IsActive reports whether the assignment still counts against the
// one-active-assignment-per-(submission, reviewer) invariant.
func (s AssignmentStatus) IsActive() bool {
	return s != AssignmentStatusReassigned
}

// UserRole represents the user's role in the platform.
type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleReviewer UserRole = "REVIEWER"
	UserRoleAdmin    UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleReviewer, UserRoleAdmin:
		return true
	}
	return false
}

// EvalJobStatus represents the state of an AI evaluation job.
type EvalJobStatus string

const (
	EvalJobStatusPending    EvalJobStatus = "PENDING"
	EvalJobStatusProcessing EvalJobStatus = "PROCESSING"
	EvalJobStatusCompleted  EvalJobStatus = "COMPLETED"
	EvalJobStatusFailed     EvalJobStatus = "FAILED"
)

func (s EvalJobStatus) String() string { return string(s) }

func (s EvalJobStatus) IsValid() bool {
	switch s {
	case EvalJobStatusPending, EvalJobStatusProcessing, EvalJobStatusCompleted, EvalJobStatusFailed:
		return true
	}
	return false
}

// ConflictType classifies how reviewer scores disagree.
type ConflictType string

const (
	ConflictTypeSpamDispute      ConflictType = "spam_dispute"
	ConflictTypeCategoryMismatch ConflictType = "category_mismatch"
	ConflictTypeTierDispute      ConflictType = "tier_dispute"
	ConflictTypeOutlier          ConflictType = "outlier"
	ConflictTypeGeneral          ConflictType = "general"
)

func (c ConflictType) String() string { return string(c) }

// XpTransactionType tags a ledger entry with its origin.
type XpTransactionType string

const (
	XpTransactionSubmissionReward    XpTransactionType = "SUBMISSION_REWARD"
	XpTransactionReviewReward        XpTransactionType = "REVIEW_REWARD"
	XpTransactionAdminAdjustment     XpTransactionType = "ADMIN_ADJUSTMENT"
	XpTransactionConsensusCorrection XpTransactionType = "CONSENSUS_CORRECTION"
)

func (t XpTransactionType) String() string { return string(t) }

func (t XpTransactionType) IsValid() bool {
	switch t {
	case XpTransactionSubmissionReward, XpTransactionReviewReward,
		XpTransactionAdminAdjustment, XpTransactionConsensusCorrection:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit records).
type EntityType string

const (
	EntityTypeSubmission EntityType = "SUBMISSION"
	EntityTypeAssignment EntityType = "ASSIGNMENT"
	EntityTypeUser       EntityType = "USER"
	EntityTypeXp         EntityType = "XP"
)

// AuditAction identifies the kind of admin/system action being recorded.
type AuditAction string

const (
	AuditActionAssignReviewers AuditAction = "ASSIGN_REVIEWERS"
	AuditActionReassign        AuditAction = "REASSIGN"
	AuditActionXpCorrection    AuditAction = "XP_CORRECTION"
	AuditActionManualReview    AuditAction = "MANUAL_REVIEW"
)
