// Package logger provides structured logging for dwdash using zap.
package logger

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/dwdash/internal/config"
)

// Logger wraps zap.SugaredLogger with context methods.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a new Logger from configuration.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	writer, terminal, err := buildWriter(cfg.Output)
	if err != nil {
		return nil, err
	}
	encoder := buildEncoder(cfg.Format, terminal && color.SupportColor())

	core := zapcore.NewCore(encoder, writer, parseLevel(cfg.Level))
	baseLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("dwdash")

	return &Logger{
		SugaredLogger: baseLogger.Sugar(),
		base:          baseLogger,
	}, nil
}

// NewDefault creates a Logger with default settings (info level, text format, stderr).
func NewDefault() *Logger {
	cfg := &config.LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
	logger, _ := New(cfg)
	return logger
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel falls back to info for empty or unknown levels; Validate
// rejects unknown ones before a logger is built.
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return l
}

// buildEncoder creates a JSON encoder, or a console encoder with level
// colors only when writing to a color-capable terminal.
func buildEncoder(format string, colored bool) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if colored {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// buildWriter creates the output writer and reports whether it is a
// standard stream. Logs default to stderr so that commands printing tables
// or PNG paths keep stdout clean.
func buildWriter(output string) (zapcore.WriteSyncer, bool, error) {
	switch output {
	case "stderr", "":
		return zapcore.Lock(os.Stderr), true, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), true, nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open log file %s: %w", output, err)
		}
		return zapcore.AddSync(file), false, nil
	}
}

// WithReport returns a Logger with report context.
func (l *Logger) WithReport(reportID string) *Logger {
	return l.with("report", reportID)
}

// WithTable returns a Logger with table context.
func (l *Logger) WithTable(tableName string) *Logger {
	return l.with("table", tableName)
}

// WithFields returns a Logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		base:          l.base,
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
