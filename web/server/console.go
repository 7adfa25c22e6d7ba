package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	surveyID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific survey
func NewWebLogger(surveyID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		surveyID:    surveyID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := messageLevel(message)

	// Also write to the server log
	slog.Debug(strings.TrimRight(message, "\n"), "survey", wl.surveyID, "level", level)

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     level,
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

// warningErrors are the recovered per-object failures a survey or cull logs
var warningErrors = []error{core.ErrObjectQueryFailed, core.ErrDeletionFailed}

// messageLevel flags recovered per-object failures as warnings
func messageLevel(message string) string {
	for _, err := range warningErrors {
		if strings.Contains(message, err.Error()) {
			return "warning"
		}
	}
	return "info"
}
