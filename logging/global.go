// Package logging provides structured slog logging for the hemotherapy API:
// text on the console, JSON in weekly rotating files, and a request logging
// middleware.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/hemoterapia-api/config"
)

// LoggerConfig selects log destinations and levels
type LoggerConfig struct {
	LogDir         string // empty disables file logging
	Env            config.Environment
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	Verbose        bool // show info logs on the console in test runs
}

// LoggingService owns the process logger and its rotating file
type LoggingService struct {
	Logger  *slog.Logger
	rotator *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance and installs it as the
// slog default
func InitLogger(cfg LoggerConfig) *LoggingService {
	DefaultLoggingService = NewLoggingService(cfg)
	slog.SetDefault(DefaultLoggingService.Logger)
	return DefaultLoggingService
}

// NewLoggingService builds a logger writing to the console and, when LogDir is
// set, to a rotating JSON file. A log directory that cannot be created falls
// back to console only.
func NewLoggingService(cfg LoggerConfig) *LoggingService {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(cfg.Env, cfg.Level, cfg.Verbose),
	})

	if cfg.LogDir == "" {
		return &LoggingService{Logger: slog.New(console)}
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create logs directory", "error", err, "log_dir", cfg.LogDir)
		return &LoggingService{Logger: logger}
	}

	retention := cfg.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}
	rotator := NewRotatingLogger(cfg.LogDir, retention, cfg.MaxFileSize)

	file := slog.NewJSONHandler(rotator, &slog.HandlerOptions{
		Level: GetFileLogLevel(cfg.Level),
	})

	return &LoggingService{
		Logger:  slog.New(&multiHandler{handlers: []slog.Handler{console, file}}),
		rotator: rotator,
	}
}

// CleanupOldLogs removes expired log files. It is a no-op without file logging.
func (s *LoggingService) CleanupOldLogs() error {
	if s == nil || s.rotator == nil {
		return nil
	}
	return s.rotator.CleanupOldLogs()
}

// Close flushes and closes the log file
func (s *LoggingService) Close() error {
	if s == nil || s.rotator == nil {
		return nil
	}
	return s.rotator.Close()
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// GetConsoleLogLevel returns the console level. Test runs stay quiet unless
// verbose; otherwise an explicit level wins over the environment default.
func GetConsoleLogLevel(env config.Environment, level string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if level != "" {
		return parseLogLevel(level)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// GetFileLogLevel returns the file level: the configured level, but never
// quieter than info so the file keeps the request trail.
func GetFileLogLevel(level string) slog.Level {
	return min(parseLogLevel(level), slog.LevelInfo)
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// multiHandler fans records out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
