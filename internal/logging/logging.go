// Package logging builds the slog loggers used across the provisioning
// commands. Console output is for the operator; the rotated file under
// logs/ keeps a durable record of each run.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"botstrap/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string

	// FilePath, when set, mirrors output into a rotated log file.
	FilePath     string
	MaxMegabytes int
	Backups      int
	MaxAgeDays   int
}

// New constructs a slog logger from the options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	var writer io.Writer = os.Stderr
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxMegabytes,
			MaxBackups: opts.Backups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	case "console":
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), nil
}

// NewFromConfig creates a logger using the installation's settings, writing
// the file log into the workspace logs directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	return New(Options{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		FilePath:     filepath.Join(cfg.Workspace().Logs(), "botstrap.log"),
		MaxMegabytes: cfg.LogMaxMegabytes,
		Backups:      cfg.LogBackups,
		MaxAgeDays:   cfg.LogMaxAgeDays,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
