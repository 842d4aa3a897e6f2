package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality.
type Logger struct {
	*zap.Logger
}

// Format selects the on-disk/stdout encoding used by the logger.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New creates a logger instance for the given level ("debug", "info", "warn",
// "error") and format ("json" or "console"). Unknown levels default to info.
func New(level string, format Format) (*Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	switch format {
	case FormatConsole:
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case FormatJSON, "":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("logger: unknown format %q", format)
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}

	return &Logger{Logger: zapLogger}, nil
}

// NewLogger creates a logger instance with production defaults (info/json).
func NewLogger() (*Logger, error) {
	return New("info", FormatJSON)
}

// Named returns a child logger annotated with the given subsystem name.
func (l *Logger) Named(name string) *Logger {
	if l.Logger == nil {
		return l
	}

	return &Logger{Logger: l.Logger.Named(name)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
