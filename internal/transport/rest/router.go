package rest

import (
	"net/http"

	"github.com/peerxp/peerxp-backend/internal/transport/middleware"
)

// NewRouter builds the HTTP routing table. Health probes are open; the
// admin API relies on the auth middleware plus per-handler role checks.
func NewRouter(health *HealthHandler, admin *AdminHandler, mws ...middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)

	mux.HandleFunc("POST /api/v1/submissions/{id}/assignments:ensure", admin.EnsureAssignments)
	mux.HandleFunc("POST /api/v1/submissions/{id}/xp", admin.CorrectXp)
	mux.HandleFunc("GET /api/v1/submissions/{id}/consensus", admin.GetConsensus)
	mux.HandleFunc("POST /api/v1/submissions/{id}/evaluation", admin.EnqueueEvaluation)
	mux.HandleFunc("GET /api/v1/submissions/{id}/evaluation", admin.GetEvaluation)
	mux.HandleFunc("GET /api/v1/submissions/{id}/audit", admin.SubmissionAudit)
	mux.HandleFunc("GET /api/v1/disputes", admin.ListDisputes)
	mux.HandleFunc("POST /api/v1/users/{id}/xp:recalculate", admin.RecalculateXp)
	mux.HandleFunc("GET /api/v1/users/{id}/transactions", admin.UserLedger)
	mux.HandleFunc("GET /api/v1/users/{id}/weekly", admin.UserWeekly)

	return middleware.Chain(mws...)(mux)
}
