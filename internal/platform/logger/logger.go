package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process logger: JSON in deployed environments, text with
// debug output in development.
func New(environment string) *slog.Logger {
	return newWithWriter(os.Stdout, environment)
}

func newWithWriter(w io.Writer, environment string) *slog.Logger {
	if environment == "development" || environment == "test" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
