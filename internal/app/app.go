package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/peerxp/peerxp-backend/internal/adapter/notify"
	"github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	assignmentrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/assignment"
	auditrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/audit"
	evalrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/evalqueue"
	reviewrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/review"
	reviewerrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/reviewer"
	submissionrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/submission"
	userrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/user"
	xprepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/xp"
	"github.com/peerxp/peerxp-backend/internal/adapter/provider/scoring"
	"github.com/peerxp/peerxp-backend/internal/auth"
	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/service/allocation"
	"github.com/peerxp/peerxp-backend/internal/service/consensus"
	"github.com/peerxp/peerxp-backend/internal/service/evalqueue"
	"github.com/peerxp/peerxp-backend/internal/service/xp"
	"github.com/peerxp/peerxp-backend/internal/transport/middleware"
	"github.com/peerxp/peerxp-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories into services, and runs the HTTP server
// plus the evaluation worker and the overdue-assignment sweep until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	assignments := assignmentrepo.New(pool)
	audits := auditrepo.New(pool)
	evalJobs := evalrepo.New(pool)
	reviews := reviewrepo.New(pool)
	reviewers := reviewerrepo.New(pool)
	submissions := submissionrepo.New(pool)
	users := userrepo.New(pool)
	ledger := xprepo.New(pool)

	webhooks := notify.NewSink(logger, cfg.Notify)
	oracle := scoring.NewProvider(logger, cfg.AI)

	allocationSvc := allocation.NewService(logger, reviewers, assignments, submissions, users, webhooks, audits, txManager, cfg.Review)
	consensusSvc := consensus.NewService(logger, reviews, submissions, cfg.Consensus)
	xpSvc := xp.NewService(logger, submissions, users, ledger, audits, webhooks, txManager, cfg.Xp)
	evalSvc := evalqueue.NewService(logger, evalJobs, submissions, oracle, allocationSvc, cfg.AI)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	adminHandler := rest.NewAdminHandler(logger, allocationSvc, consensusSvc, xpSvc, evalSvc, submissions, audits, ledger)

	router := rest.NewRouter(healthHandler, adminHandler,
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Auth(jwtManager),
	)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go evalSvc.Run(ctx)
	go runOverdueSweep(ctx, logger, allocationSvc, cfg.Review)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// runOverdueSweep periodically expires overdue review assignments and
// reassigns replacements.
func runOverdueSweep(ctx context.Context, logger *slog.Logger, svc *allocation.Service, cfg config.ReviewConfig) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := svc.ExpireOverdue(ctx, cfg.SweepBatch)
			if err != nil {
				logger.ErrorContext(ctx, "overdue sweep failed", slog.Any("error", err))
				continue
			}
			if expired > 0 {
				logger.InfoContext(ctx, "overdue sweep completed", slog.Int("expired", expired))
			}
		}
	}
}
