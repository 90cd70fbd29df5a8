// Command recalc-xp rebuilds every user's cached XP totals from the
// transaction ledger. It is intended to be invoked by an external cron job
// or manually after data surgery, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/peerxp/peerxp-backend/internal/adapter/notify"
	"github.com/peerxp/peerxp-backend/internal/adapter/postgres"
	auditrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/audit"
	submissionrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/submission"
	userrepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/user"
	xprepo "github.com/peerxp/peerxp-backend/internal/adapter/postgres/xp"
	"github.com/peerxp/peerxp-backend/internal/app"
	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/service/xp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	xpSvc := xp.NewService(
		logger,
		submissionrepo.New(pool),
		userrepo.New(pool),
		xprepo.New(pool),
		auditrepo.New(pool),
		notify.NewSink(logger, cfg.Notify),
		postgres.NewTxManager(pool),
		cfg.Xp,
	)

	done, err := xpSvc.RecalculateAll(ctx)
	if err != nil {
		logger.Error("recalculation finished with failures",
			slog.Int("recalculated", done),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("recalculation completed", slog.Int("recalculated", done))
}
