// Package logging configures the process-wide slog logger. strum is a
// full-screen terminal program, so logs go to a file, never to the
// terminal the TUI is drawing on.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tessro/strum/internal/config"
)

// Setup opens the log file and installs it as the default slog
// destination. It returns a close function for shutdown.
func Setup(cfg config.LogConfig, verbose bool) (func(), error) {
	path := cfg.File
	if path == "" {
		path = defaultLogPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	return func() { _ = f.Close() }, nil
}

// Discard routes slog output nowhere. Used by tests and by commands
// that must not touch the filesystem.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parseLevel(s string) slog.Level {
	switch s {
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

func defaultLogPath() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "strum.log"
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "strum", "strum.log")
}
