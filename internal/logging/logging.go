// Package logging builds the slog loggers handed to the engine and CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// levelSilent sits above every standard level.
const levelSilent = slog.Level(100)

func NewLogger(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelSilent}))
}

// ParseFormat accepts "text" or "json"; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// LevelFromString converts debug, info, warn or error (case-insensitive).
// Unrecognized strings map to warn.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	case "silent", "off":
		return levelSilent
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity lowers the configured level by one step per -v.
func LevelFromVerbosity(base slog.Level, verbosity int) slog.Level {
	level := base
	for i := 0; i < verbosity && level > slog.LevelDebug; i++ {
		switch {
		case level > slog.LevelError:
			level = slog.LevelError
		case level > slog.LevelWarn:
			level = slog.LevelWarn
		case level > slog.LevelInfo:
			level = slog.LevelInfo
		default:
			level = slog.LevelDebug
		}
	}
	return level
}
