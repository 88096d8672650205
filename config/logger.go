package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. Production emits JSON,
// everything else a text handler. LOG_LEVEL selects the minimum level
// (debug, info, warn, error); unset or unknown values mean info.
func NewLogger() *slog.Logger {
	var level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
