// Package notify carries leveled messages from the backend to the presentation layer.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlorentedev/sidehustler/internal/metrics"
)

// Level is the severity attached to a UI message.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a level name to a Level. "warning" is accepted as warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelError, fmt.Errorf("notify: unknown level %q", s)
	}
}

// SlogLevel returns the slog level matching l.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Message is one entry in the UI console.
type Message struct {
	ID        string `json:"id"`
	Level     Level  `json:"level"`
	Text      string `json:"message"`
	Data      string `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewMessage stamps a message with a fresh id and the current local time.
func NewMessage(level Level, text, data string) Message {
	return Message{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Sink receives leveled messages destined for the UI.
type Sink interface {
	Notify(level Level, text string)
}

// DataSink is implemented by sinks that can carry a detail payload next to the text.
type DataSink interface {
	NotifyData(level Level, text, data string)
}

// WithData sends text plus detail to s, falling back to text only.
func WithData(s Sink, level Level, text, data string) {
	if ds, ok := s.(DataSink); ok {
		ds.NotifyData(level, text, data)
		return
	}
	s.Notify(level, text)
}

// LogSink writes messages to slog.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Notify(level Level, text string) {
	l.NotifyData(level, text, "")
}

func (l LogSink) NotifyData(level Level, text, data string) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"source", "ui"}
	if data != "" {
		attrs = append(attrs, "data", data)
	}
	logger.Log(context.Background(), level.SlogLevel(), text, attrs...)
}

// Multi fans a message out to every sink in order.
type Multi []Sink

func (m Multi) Notify(level Level, text string) {
	for _, s := range m {
		s.Notify(level, text)
	}
}

func (m Multi) NotifyData(level Level, text, data string) {
	for _, s := range m {
		WithData(s, level, text, data)
	}
}

// Discard drops every message.
type Discard struct{}

func (Discard) Notify(Level, string) {}

// Truncate shortens s to n runes, appending "..." when something was cut.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	i := 0
	for idx := range s {
		if i == n {
			return s[:idx] + "..."
		}
		i++
	}
	return s
}

func countMessage(level Level) {
	metrics.NotificationsTotal.WithLabelValues(string(level)).Inc()
}
