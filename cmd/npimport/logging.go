package main

import (
	"io"
	"log/slog"
	"strings"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// newLogger writes text logs to w. A non-empty flag value overrides the
// configured level.
func newLogger(w io.Writer, configured, flag string) *slog.Logger {
	level := configured
	if flag != "" {
		level = flag
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}
