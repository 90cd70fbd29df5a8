package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/internal/service/allocation"
	"github.com/peerxp/peerxp-backend/internal/service/consensus"
	"github.com/peerxp/peerxp-backend/internal/service/xp"
	"github.com/peerxp/peerxp-backend/internal/transport/middleware"
)

type allocationService interface {
	Ensure(ctx context.Context, input allocation.EnsureInput) (*allocation.EnsureResult, error)
}

type consensusService interface {
	Detect(ctx context.Context, submissionID uuid.UUID) (*consensus.Verdict, error)
	ListDisputes(ctx context.Context, limit int) ([]consensus.Dispute, error)
}

type xpService interface {
	Propagate(ctx context.Context, input xp.PropagateInput) (*xp.ChangeResult, error)
	Recalculate(ctx context.Context, userID uuid.UUID) (*xp.Totals, error)
}

type evalService interface {
	Enqueue(ctx context.Context, submissionID uuid.UUID) (domain.EvaluationJob, error)
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*domain.EvaluationJob, error)
}

type submissionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
}

type auditReader interface {
	GetByTarget(ctx context.Context, targetType domain.EntityType, targetID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

type ledgerReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.XpTransaction, error)
	GetWeekly(ctx context.Context, userID uuid.UUID, week domain.WeekNumber) (*domain.WeeklyStats, error)
}

// AdminHandler serves the admin REST endpoints. Every handler enforces the
// ADMIN role before touching a service.
type AdminHandler struct {
	allocations allocationService
	disputes    consensusService
	xp          xpService
	evaluations evalService
	submissions submissionReader
	audits      auditReader
	ledger      ledgerReader
	log         *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	logger *slog.Logger,
	allocations allocationService,
	disputes consensusService,
	xpSvc xpService,
	evaluations evalService,
	submissions submissionReader,
	audits auditReader,
	ledger ledgerReader,
) *AdminHandler {
	return &AdminHandler{
		allocations: allocations,
		disputes:    disputes,
		xp:          xpSvc,
		evaluations: evaluations,
		submissions: submissions,
		audits:      audits,
		ledger:      ledger,
		log:         logger.With("handler", "admin"),
	}
}

type ensureRequest struct {
	MinimumReviewers int         `json:"minimumReviewers"`
	Exclude          []uuid.UUID `json:"exclude"`
}

type ensureResponse struct {
	Status            string      `json:"status"`
	AssignedReviewers []uuid.UUID `json:"assignedReviewers"`
	Errors            []string    `json:"errors,omitempty"`
	Warnings          []string    `json:"warnings,omitempty"`
}

// EnsureAssignments tops a submission up to the required number of active
// reviewer assignments. Idempotent: a satisfied submission reports
// SKIPPED_ALREADY_ASSIGNED.
// POST /api/v1/submissions/{id}/assignments:ensure
func (h *AdminHandler) EnsureAssignments(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ensureRequest
	if !decodeBodyOptional(w, r, &req) {
		return
	}

	sub, err := h.submissions.GetByID(r.Context(), submissionID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	result, err := h.allocations.Ensure(r.Context(), allocation.EnsureInput{
		SubmissionID:     submissionID,
		AuthorID:         sub.AuthorID,
		MinimumReviewers: req.MinimumReviewers,
		Exclude:          req.Exclude,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, ensureResponse{
		Status:            string(result.Status),
		AssignedReviewers: result.AssignedReviewers,
		Errors:            result.Errors,
		Warnings:          result.Warnings,
	})
}

type xpCorrectionRequest struct {
	OldXp     int    `json:"oldXp"`
	NewXp     int    `json:"newXp"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Confirmed bool   `json:"confirmed"`
}

type xpDeltaBody struct {
	Requested   int `json:"requested"`
	Applied     int `json:"applied"`
	WeekApplied int `json:"weekApplied"`
}

type xpCorrectionResponse struct {
	Success         bool        `json:"success"`
	Delta           xpDeltaBody `json:"delta"`
	UpdatedEntities []string    `json:"updatedEntities"`
	Errors          []string    `json:"errors,omitempty"`
	Warnings        []string    `json:"warnings,omitempty"`
}

// CorrectXp overrides a submission's final XP and propagates the change to
// the author's totals, the ledger, weekly aggregates, and the audit log.
// POST /api/v1/submissions/{id}/xp
func (h *AdminHandler) CorrectXp(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req xpCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.xp.Propagate(r.Context(), xp.PropagateInput{
		SubmissionID: submissionID,
		OldXp:        req.OldXp,
		NewXp:        req.NewXp,
		Type:         domain.XpTransactionType(req.Type),
		Reason:       req.Reason,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, xpCorrectionResponse{
		Success: result.Success,
		Delta: xpDeltaBody{
			Requested:   result.Delta.Requested,
			Applied:     result.Delta.Applied,
			WeekApplied: result.Delta.WeekApplied,
		},
		UpdatedEntities: result.UpdatedEntities,
		Errors:          result.Errors,
		Warnings:        result.Warnings,
	})
}

type totalsResponse struct {
	UserID        uuid.UUID `json:"userId"`
	TotalXp       int       `json:"totalXp"`
	CurrentWeekXp int       `json:"currentWeekXp"`
}

// RecalculateXp rebuilds a user's cached XP totals from the ledger.
// POST /api/v1/users/{id}/xp:recalculate
func (h *AdminHandler) RecalculateXp(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	totals, err := h.xp.Recalculate(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, totalsResponse{
		UserID:        totals.UserID,
		TotalXp:       totals.TotalXp,
		CurrentWeekXp: totals.CurrentWeekXp,
	})
}

type verdictBody struct {
	Divergent    bool    `json:"divergent"`
	StdDev       float64 `json:"stdDev"`
	ConflictType string  `json:"conflictType,omitempty"`
	Description  string  `json:"description,omitempty"`
}

type disputeBody struct {
	SubmissionID uuid.UUID   `json:"submissionId"`
	AuthorID     uuid.UUID   `json:"authorId"`
	FinalXp      *int        `json:"finalXp"`
	Verdict      verdictBody `json:"verdict"`
}

// GetConsensus classifies reviewer disagreement for one finalized
// submission.
// GET /api/v1/submissions/{id}/consensus
func (h *AdminHandler) GetConsensus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	verdict, err := h.disputes.Detect(r.Context(), submissionID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toVerdictBody(*verdict))
}

// ListDisputes returns divergent submissions from the lookback window.
// GET /api/v1/disputes?limit=50
func (h *AdminHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	limit, ok := queryLimit(w, r, 50)
	if !ok {
		return
	}

	disputes, err := h.disputes.ListDisputes(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	body := make([]disputeBody, len(disputes))
	for i, d := range disputes {
		body[i] = disputeBody{
			SubmissionID: d.SubmissionID,
			AuthorID:     d.AuthorID,
			FinalXp:      d.FinalXp,
			Verdict:      toVerdictBody(d.Verdict),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"disputes": body})
}

type evalJobBody struct {
	ID           uuid.UUID  `json:"id"`
	SubmissionID uuid.UUID  `json:"submissionId"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	LastError    string     `json:"lastError,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// EnqueueEvaluation queues a submission for automated scoring.
// POST /api/v1/submissions/{id}/evaluation
func (h *AdminHandler) EnqueueEvaluation(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.evaluations.Enqueue(r.Context(), submissionID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, toEvalJobBody(job))
}

// GetEvaluation returns the evaluation job for a submission.
// GET /api/v1/submissions/{id}/evaluation
func (h *AdminHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.evaluations.GetBySubmission(r.Context(), submissionID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvalJobBody(*job))
}

type auditRecordBody struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   uuid.UUID      `json:"actorId"`
	Action    string         `json:"action"`
	TargetID  *uuid.UUID     `json:"targetId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SubmissionAudit returns the audit history for one submission.
// GET /api/v1/submissions/{id}/audit?limit=20
func (h *AdminHandler) SubmissionAudit(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	submissionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r, 20)
	if !ok {
		return
	}

	records, err := h.audits.GetByTarget(r.Context(), domain.EntityTypeSubmission, submissionID, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	body := make([]auditRecordBody, len(records))
	for i, rec := range records {
		body[i] = auditRecordBody{
			ID:        rec.ID,
			ActorID:   rec.ActorID,
			Action:    string(rec.Action),
			TargetID:  rec.TargetID,
			Details:   rec.Details,
			CreatedAt: rec.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": body})
}

type transactionBody struct {
	ID           uuid.UUID  `json:"id"`
	Amount       int        `json:"amount"`
	Type         string     `json:"type"`
	SubmissionID *uuid.UUID `json:"submissionId,omitempty"`
	WeekNumber   int        `json:"weekNumber"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UserLedger returns a user's XP ledger entries, newest first.
// GET /api/v1/users/{id}/transactions?limit=50&offset=0
func (h *AdminHandler) UserLedger(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r, 50)
	if !ok {
		return
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = n
	}

	transactions, err := h.ledger.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	body := make([]transactionBody, len(transactions))
	for i, tx := range transactions {
		body[i] = transactionBody{
			ID:           tx.ID,
			Amount:       tx.Amount,
			Type:         string(tx.Type),
			SubmissionID: tx.SubmissionID,
			WeekNumber:   int(tx.WeekNumber),
			Description:  tx.Description,
			CreatedAt:    tx.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": body})
}

type weeklyStatsBody struct {
	UserID           uuid.UUID `json:"userId"`
	WeekNumber       int       `json:"weekNumber"`
	XpEarned         int       `json:"xpEarned"`
	ReviewsCompleted int       `json:"reviewsCompleted"`
	ReviewsMissed    int       `json:"reviewsMissed"`
}

// UserWeekly returns a user's aggregate for one ISO week (current week when
// the query parameter is absent).
// GET /api/v1/users/{id}/weekly?week=202610
func (h *AdminHandler) UserWeekly(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	week := domain.WeekOf(time.Now().UTC())
	if v := r.URL.Query().Get("week"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 100 {
			writeError(w, http.StatusBadRequest, "week must be an ISO week number like 202610")
			return
		}
		week = domain.WeekNumber(n)
	}

	stats, err := h.ledger.GetWeekly(r.Context(), userID, week)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, weeklyStatsBody{
		UserID:           stats.UserID,
		WeekNumber:       int(stats.WeekNumber),
		XpEarned:         stats.XpEarned,
		ReviewsCompleted: stats.ReviewsCompleted,
		ReviewsMissed:    stats.ReviewsMissed,
	})
}

func queryLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	limit := def
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return 0, false
		}
		limit = n
	}
	return limit, true
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

func toVerdictBody(v consensus.Verdict) verdictBody {
	return verdictBody{
		Divergent:    v.Divergent,
		StdDev:       v.StdDev,
		ConflictType: v.ConflictType.String(),
		Description:  v.Description,
	}
}

func toEvalJobBody(j domain.EvaluationJob) evalJobBody {
	return evalJobBody{
		ID:           j.ID,
		SubmissionID: j.SubmissionID,
		Status:       string(j.Status),
		Attempts:     j.Attempts,
		LastError:    j.LastError,
		StartedAt:    j.StartedAt,
		CreatedAt:    j.CreatedAt,
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBodyOptional decodes a JSON body into v, tolerating an empty body.
func decodeBodyOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
