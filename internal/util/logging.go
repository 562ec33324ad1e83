package util

import (
	"log/slog"
	"os"
)

// InitLogger configures the global slog logger with JSON output on stderr,
// keeping stdout free for command output. Accepts levels: debug, info, warn,
// error. Defaults to warn on unknown input so list output stays quiet.
func InitLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelWarn
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
