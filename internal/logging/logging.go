// Package logging sets up the structured logger. The terminal belongs to
// the TUI, so records go to a dated file under the logs directory and only
// when debug logging is enabled.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// EnvDebug turns on debug logging when set to "1".
const EnvDebug = "FOCUSCUP_DEBUG"

// DebugFromEnv reports whether FOCUSCUP_DEBUG=1.
func DebugFromEnv() bool {
	return os.Getenv(EnvDebug) == "1"
}

// New returns a logger and the closer for its file. When enabled is false
// the logger discards everything and the closer is a no-op.
func New(dir string, enabled bool, now time.Time) (*slog.Logger, io.Closer, error) {
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("focuscup-%s.log", now.Format("2006-01-02")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("focuscup started", "log_file", path)
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
