// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON logger when format is "json" and a text logger
// otherwise. Debug lowers the level to slog.LevelDebug.
func New(format string, debug bool) *slog.Logger {
	return newWithWriter(os.Stdout, format, debug)
}

func newWithWriter(w io.Writer, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
