package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

func LevelFromEnv(s string) slog.Level {
	switch strings.ToLower(s) {
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

func NewJSON(level slog.Level) *slog.Logger {
	return NewJSONTo(os.Stdout, level)
}

func NewJSONTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard is for tests and for components built without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var unsafeLogging atomic.Bool

// SetSafeLogging toggles scrubbing of values wrapped with Sensitive. On by default.
func SetSafeLogging(on bool) { unsafeLogging.Store(!on) }

type sensitive struct{ v any }

// Sensitive wraps a value that must not reach the logs unless safe logging
// has been switched off.
func Sensitive(v any) slog.LogValuer { return sensitive{v: v} }

func (s sensitive) LogValue() slog.Value {
	if !unsafeLogging.Load() {
		return slog.StringValue("[scrubbed]")
	}
	return slog.AnyValue(s.v)
}
