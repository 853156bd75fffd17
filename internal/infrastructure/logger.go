package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"seisprep/internal/config"
)

// NewLogger creates a slog logger per the logging configuration. The
// returned closer releases the log file when file output is active; it is
// a no-op otherwise. The logger is returned, not installed as a default:
// callers inject it where it is needed.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	output, closer, err := openOutput(cfg)
	if err != nil {
		return nil, noop, err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler), closer, nil
}

func openOutput(cfg config.LoggingConfig) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Output) {
	case "", "console":
		return os.Stdout, noop, nil
	case "file":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return f, f.Close, nil
	case "both":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return io.MultiWriter(os.Stdout, f), f.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown log output %q", cfg.Output)
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
