package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an append-only trace of an admin or system action.
// Details is an arbitrary key/value payload stored as JSONB.
type AuditRecord struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     AuditAction
	TargetType EntityType
	TargetID   *uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}
