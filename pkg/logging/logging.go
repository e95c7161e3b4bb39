// Package logging configures the process-wide slog logger.
//
// The text format writes colored output with tint for local development; the
// json format writes one JSON object per line for log collectors.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs and returns the default logger for the given level and format.
func Setup(level, format string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, ParseLevel(level), format))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds a tint handler, or a JSON handler when format is "json".
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels (default: info).
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
