// Command migrate applies the embedded SQL migrations.
//
// Usage: migrate [up|down|status]  (default: up)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/peerxp/peerxp-backend/internal/app"
	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/migrations"
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		logger.Error("create migration provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			logger.Error("migrate up", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations applied", slog.Int("count", len(results)))
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			logger.Error("migrate down", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migration rolled back", slog.String("source", result.Source.Path))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			logger.Error("migration status", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, st := range statuses {
			applied := "pending"
			if st.State == goose.StateApplied {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			logger.Info("migration",
				slog.String("source", st.Source.Path),
				slog.String("applied", applied),
			)
		}
	default:
		log.Fatalf("unknown command %q (want up, down, or status)", command)
	}
}
