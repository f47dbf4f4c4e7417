package gatekeeper

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Logger interface {
	Error(a ...any)
	Debug(a ...any)
}

// NewLogger builds a slog backed Logger writing text or json records to w.
func NewLogger(w io.Writer, level, format string) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return NewSlogLogger(slog.New(handler))
}

func NewSlogLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger}
}

type slogLogger struct {
	*slog.Logger
}

func (l *slogLogger) Error(a ...any) {
	l.Logger.Error(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

func (l *slogLogger) Debug(a ...any) {
	l.Logger.Debug(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
