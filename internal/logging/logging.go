// Package logging configures the process-wide log/slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logging configuration options.
type Config struct {
	// Level is the minimum log level to output.
	Level slog.Level
	// JSON switches from logfmt-style text to JSON lines.
	JSON bool
	// Output defaults to os.Stderr so logs never mix with command output.
	Output io.Writer
}

// DefaultConfig reads LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and LOG_FORMAT
// (text or json). The CLI is quiet by default: only warnings and errors.
func DefaultConfig() Config {
	cfg := Config{Level: slog.LevelWarn, Output: os.Stderr}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if level, err := ParseLevel(v); err == nil {
			cfg.Level = level
		}
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		cfg.JSON = true
	}
	return cfg
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Setup builds a logger from cfg and installs it as the slog default.
func Setup(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
