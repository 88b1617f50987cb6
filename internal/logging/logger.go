package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the slog default and returns its
// handler so it can later be combined with the database sink.
func Setup(env string) slog.Handler {
	handler := NewJSONHandler(os.Stdout, env)
	slog.SetDefault(slog.New(handler))
	return handler
}

// NewJSONHandler logs at DEBUG in development and INFO everywhere else.
func NewJSONHandler(w io.Writer, env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
