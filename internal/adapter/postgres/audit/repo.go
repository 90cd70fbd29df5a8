// Package audit implements the admin-action audit repository using
// PostgreSQL. It provides append-only operations for audit records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Repo provides audit record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const auditColumns = `id, actor_id, action, target_type, target_id, details, created_at`

const createSQL = `
INSERT INTO audit_records (id, actor_id, action, target_type, target_id, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + auditColumns

const getByTargetSQL = `
SELECT ` + auditColumns + `
FROM audit_records
WHERE target_type = $1 AND target_id = $2
ORDER BY created_at DESC
LIMIT $3`

// Create inserts a new audit record and returns the persisted record.
func (r *Repo) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	detailsJSON, err := json.Marshal(rec.Details)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record marshal details: %w", err)
	}

	row := q.QueryRow(ctx, createSQL,
		rec.ID, rec.ActorID, rec.Action, rec.TargetType, rec.TargetID, detailsJSON, rec.CreatedAt,
	)
	created, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", rec.ID)
	}
	return created, nil
}

// Log creates an audit record without returning it (fire-and-forget).
// Satisfies the auditLogger interfaces of the service packages.
func (r *Repo) Log(ctx context.Context, rec domain.AuditRecord) error {
	_, err := r.Create(ctx, rec)
	return err
}

// GetByTarget returns the audit history for a specific target entity,
// newest first, limited to `limit` records.
func (r *Repo) GetByTarget(ctx context.Context, targetType domain.EntityType, targetID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByTargetSQL, targetType, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("get audit_records by target: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit_record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (domain.AuditRecord, error) {
	var (
		rec domain.AuditRecord
		raw []byte
	)
	err := row.Scan(&rec.ID, &rec.ActorID, &rec.Action, &rec.TargetType, &rec.TargetID, &raw, &rec.CreatedAt)
	if err != nil {
		return domain.AuditRecord{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Details); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record unmarshal details: %w", err)
		}
	}
	return rec, nil
}
