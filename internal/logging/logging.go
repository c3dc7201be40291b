// Package logging builds the application's slog handler.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Log formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New returns a logger writing to w. FormatText produces colored output via
// tint; anything else produces JSON.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == FormatText {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
