package xp

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// PropagateInput holds the parameters for an XP correction.
type PropagateInput struct {
	SubmissionID uuid.UUID
	// OldXp is the final XP the caller believes the submission currently
	// holds; propagation rejects the request if the stored value differs.
	OldXp int
	NewXp int
	// Type tags the resulting ledger entry; defaults to ADMIN_ADJUSTMENT.
	Type   domain.XpTransactionType
	Reason string
	// Confirmed acknowledges a large correction. Required when the raw
	// delta's magnitude exceeds the configured confirmation threshold.
	Confirmed bool
}

// Validate checks all fields against the configured bounds and collects all
// errors, so an admin fixing a rejected request sees every problem at once.
func (i PropagateInput) Validate(cfg config.XpConfig) error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submissionId", Message: "required"})
	}
	if i.NewXp < 0 {
		errs = append(errs, domain.FieldError{Field: "newXp", Message: "must be non-negative"})
	}
	if i.NewXp > cfg.MaxXp {
		errs = append(errs, domain.FieldError{
			Field:   "newXp",
			Message: fmt.Sprintf("max %d", cfg.MaxXp),
		})
	}
	if i.OldXp < 0 {
		errs = append(errs, domain.FieldError{Field: "oldXp", Message: "must be non-negative"})
	}

	if len(strings.TrimSpace(i.Reason)) < cfg.MinReasonLength {
		errs = append(errs, domain.FieldError{
			Field:   "reason",
			Message: fmt.Sprintf("min %d characters", cfg.MinReasonLength),
		})
	}

	if i.Type != "" && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown transaction type"})
	}

	delta := i.NewXp - i.OldXp
	if abs(delta) > cfg.ConfirmationThreshold && !i.Confirmed {
		errs = append(errs, domain.FieldError{
			Field:   "confirmed",
			Message: fmt.Sprintf("delta %+d exceeds %d, explicit confirmation required", delta, cfg.ConfirmationThreshold),
		})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i PropagateInput) transactionType() domain.XpTransactionType {
	if i.Type == "" {
		return domain.XpTransactionAdminAdjustment
	}
	return i.Type
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
