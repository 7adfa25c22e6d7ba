package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger interface for survey logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// SlogLogger implements Logger on top of a structured slog.Logger
type SlogLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogLogger wraps logger so that every Printf is emitted at level
func NewSlogLogger(logger *slog.Logger, level slog.Level) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger, level: level}
}

// Printf implements Logger. Trailing newlines are dropped, slog adds its own.
func (sl *SlogLogger) Printf(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	sl.logger.Log(context.Background(), sl.level, msg)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
