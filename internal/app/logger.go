package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/peerxp/peerxp-backend/internal/config"
)

// NewLogger builds the process-wide *slog.Logger from LogConfig and installs
// it via slog.SetDefault, so background workers (the evaluation queue, the
// overdue sweep) that fall back to the default logger share the same handler.
//
// Format "json" is for deployed instances, "text" adds source info for local
// runs. Level is one of debug, info, warn, error (case-insensitive) and
// defaults to info. Output is always os.Stderr.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
