package infra

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger builds the process logger: structured text to stderr and, when
// logDir is non-empty, duplicated into logDir/bot.log. The returned closer
// releases the log file.
func NewLogger(cfg *Config, logDir string) (*slog.Logger, func() error, error) {
	level := parseLevel(cfg.Logging.Level)

	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if logDir != "" {
		if err := EnsureDir(logDir); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(logDir, "bot.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = f.Close
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
