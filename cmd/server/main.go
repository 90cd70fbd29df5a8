// Command server runs the peer-review backend: the admin HTTP API, the
// evaluation worker, and the overdue-assignment sweep.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/peerxp/peerxp-backend/internal/app"
)

func main() {
	// Best effort: a missing .env file is fine in production.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}
