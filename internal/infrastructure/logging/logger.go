package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger at level and installs it as the slog default,
// so components built without an explicit logger share it.
func New(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
