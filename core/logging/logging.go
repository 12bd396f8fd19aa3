// Package logging builds the slog loggers shared by the recognizer packages.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// EnvDebug turns on debug tracing for every component when set.
const EnvDebug = "MRECOGNIZER_DEBUG"

// FromEnv returns a debug logger on stderr when EnvDebug is set and a
// discarding logger otherwise.
func FromEnv() *slog.Logger {
	if os.Getenv(EnvDebug) == "" {
		return Discard()
	}
	return New(os.Stderr, slog.LevelDebug)
}

// New returns a compact text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Trace lines carry neither time nor level
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
