package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.Logger to provide structured logging.
type Logger struct {
	logger *zap.Logger
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// Options holds configuration options for the logger.
type Options struct {
	level           Level
	outputPaths     []string
	callerTraceSkip int
}

// Level represents the severity level of the log.
type Level string

var (
	// DebugLevel is used for debug messages.
	DebugLevel Level = "debug"
	// InfoLevel is used for informational messages.
	InfoLevel Level = "info"
	// WarnLevel is used for warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel is used for error messages.
	ErrorLevel Level = "error"

	messageKey string = "message"
)

// ParseLevel converts a configuration string into a Level. Unknown values map to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel
	case WarnLevel:
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (level Level) getZapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel // same as zap's production default
	}
}

// NewLogger creates new Logger instance with configuration options.
func NewLogger(opts ...Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	var buildOptions []zap.Option

	for _, opt := range opts {
		if opt.level != "" {
			cfg.Level = zap.NewAtomicLevelAt(opt.level.getZapLevel())
		}
		if opt.outputPaths != nil {
			cfg.OutputPaths = opt.outputPaths
		}
		if opt.callerTraceSkip > 0 {
			buildOptions = append(buildOptions, zap.AddCallerSkip(opt.callerTraceSkip))
		}
	}

	// change default message key `msg` to `message`
	cfg.EncoderConfig.MessageKey = messageKey

	logger, err := cfg.Build(buildOptions...)
	return &Logger{
		logger: logger,
	}, err
}

// NewNopLogger returns a Logger that discards everything. Used by tests and
// by components constructed without a logger.
func NewNopLogger() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// NewFromZap wraps an existing zap.Logger, e.g. one built on an observer core.
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{logger: z}
}

// Sync flush the buffered log entries
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// WithLoggingLevel is used to set the minimum log level that will be logged to stdout.
// If not set, it will log `info` level and above by default
func WithLoggingLevel(level Level) Options {
	return Options{
		level: level,
	}
}

// WithOutputPaths is used to set multiple output paths that will be used to write
// logs to. The special paths "stdout" and "stderr" are interpreted as
// os.Stdout and os.Stderr.
func WithOutputPaths(paths []string) Options {
	return Options{
		outputPaths: paths,
	}
}

// WithCallerTraceSkip will skip X lines from trace log
func WithCallerTraceSkip(skip int) Options {
	return Options{
		callerTraceSkip: skip,
	}
}

// GetZap returns zap.Logger instance used by log.Logger
func (l *Logger) GetZap() *zap.Logger {
	return l.logger
}

// NewField returns Field with given key and value.
func NewField(key string, value interface{}) Field {
	return Field{key, value}
}

// Info write log with severity level info
func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields...)...)
}

// InfoContext write log with severity level info and append request id to given fields.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendRequestID(ctx, fields)...)
}

// Warn write log with severity level warn
func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields...)...)
}

// WarnContext write log with severity level warn and append request id to given fields.
func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, appendRequestID(ctx, fields)...)
}

// Debug Write log with severity level debug
func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields...)...)
}

// DebugContext Write log with severity level debug and append request id to given fields.
func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, appendRequestID(ctx, fields)...)
}

// Error write log with severity level error. When err carries a stack trace
// it replaces the one zap would capture.
func (l *Logger) Error(err error, fields ...Field) {
	stacktrace := ""

	if errTracer, ok := err.(errors.StackTracer); ok {
		stacktrace = strings.TrimSpace(fmt.Sprintf("%+v", errTracer.StackTrace()))
	}

	if ce := l.logger.Check(zapcore.ErrorLevel, err.Error()); ce != nil {
		if stacktrace != "" {
			ce.Stack = stacktrace
		}
		ce.Write(convertFields(fields...)...)
	}
}

// ErrorContext write log with severity level error and append request id to given fields.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendRequestID(ctx, fields)...)
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{
		logger: l.logger.With(convertFields(fields...)...),
	}
}

// convertFields transform fields to zap log fields
func convertFields(fields ...Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}

// appendRequestID get request id from context and append it to given fields.
func appendRequestID(ctx context.Context, fields []Field) []Field {
	return append(fields, NewField("request_id", util.GetRequestID(ctx)))
}
