// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("info")                  // level from config or LOG_LEVEL
//	logging.SetupWithLevel(slog.LevelDebug) // explicit level override
//
// Levels: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the named level.
func Setup(level string) {
	SetupWithLevel(ParseLevel(level))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New builds a tint logger writing to w. Colors are disabled when w is not a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	f, isFile := w.(*os.File)
	noColor := !isFile || os.Getenv("NO_COLOR") != ""
	if isFile && !noColor {
		if info, err := f.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
			noColor = true
		}
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    noColor,
	}))
}

// ParseLevel maps a level name to a slog level, falling back to LOG_LEVEL and then INFO.
func ParseLevel(level string) slog.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
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
