package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects level and output format
type Config struct {
	Level  string
	Format string
}

// New builds a logger writing to stderr and installs it as the slog default.
// Format "json" produces JSON lines; anything else produces text with source info.
func New(cfg Config) *slog.Logger {
	logger := NewWithWriter(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter builds a logger on w without touching the default
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug/info/warn/error (any case) to a level; unknown means info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
