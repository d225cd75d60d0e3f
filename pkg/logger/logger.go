package logger

import (
	"log/slog"
	"os"
)

// New returns a bootstrap logger for code that runs before the configured
// application logger exists. It writes warnings and above to stderr.
func New(component string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	return slog.New(handler).With("component", component)
}
