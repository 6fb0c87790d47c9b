// Package logger provides the structured JSON logger shared by all components
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// ParseLevel converts a configured level name such as "info" into a Level
func ParseLevel(s string) (Level, error) {
	switch lvl := Level(strings.ToUpper(strings.TrimSpace(s))); lvl {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel:
		return lvl, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// JSONLogger outputs structured JSON logs through a go-kit logger
type JSONLogger struct {
	base   kitlog.Logger
	fields map[string]interface{}
}

// NewJSONLogger creates a new JSON logger writing to output, stdout when nil
func NewJSONLogger(output io.Writer, lvl Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	base := kitlog.NewJSONLogger(kitlog.NewSyncWriter(output))
	base = kitlog.With(base, "timestamp", kitlog.DefaultTimestampUTC)
	base = level.NewFilter(base, allow(lvl))

	return &JSONLogger{
		base:   base,
		fields: make(map[string]interface{}),
	}
}

// allow maps a Level to the go-kit filter letting it and everything above through
func allow(lvl Level) level.Option {
	switch lvl {
	case DebugLevel:
		return level.AllowDebug()
	case InfoLevel:
		return level.AllowInfo()
	case WarnLevel:
		return level.AllowWarn()
	case ErrorLevel, FatalLevel:
		return level.AllowError()
	default:
		return level.AllowAll()
	}
}

// WithField returns a new logger with the field added to the log context
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with the fields added to the log context
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &JSONLogger{
		base:   l.base,
		fields: newFields,
	}
}

// Debug logs a message at debug level
func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(level.Debug(l.base), msg, fields)
}

// Info logs a message at info level
func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(level.Info(l.base), msg, fields)
}

// Warn logs a message at warn level
func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(level.Warn(l.base), msg, fields)
}

// Error logs a message at error level
func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(level.Error(l.base), msg, fields)
}

// Fatal logs a message at error level marked as fatal and then terminates the program
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(kitlog.With(level.Error(l.base), "fatal", true), msg, fields)
	os.Exit(1)
}

// log writes one record. Context fields come first so message fields win on conflicts.
func (l *JSONLogger) log(leveled kitlog.Logger, msg string, fields map[string]interface{}) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	keyvals := make([]interface{}, 0, 6+2*(len(l.fields)+len(fields)))
	keyvals = append(keyvals, "message", msg, "file", file, "line", line)
	for k, v := range l.fields {
		keyvals = append(keyvals, k, v)
	}
	for k, v := range fields {
		keyvals = append(keyvals, k, v)
	}

	if err := leveled.Log(keyvals...); err != nil {
		// Not much we can do if writing fails, but print to stderr as a last resort
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %s\n", err)
	}
}

// Default logger instances
var (
	defaultLogger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if l, ok := logger.(*JSONLogger); ok {
		defaultLogger = l
	}
}

// NewNopLogger returns a logger that discards everything, for tests and tools
func NewNopLogger() Logger {
	return &JSONLogger{
		base:   kitlog.NewNopLogger(),
		fields: make(map[string]interface{}),
	}
}

// Global logger functions. They call log directly so the reported file and line
// stay those of the caller.

// Debug logs a message at debug level on the default logger
func Debug(msg string, fields map[string]interface{}) {
	defaultLogger.log(level.Debug(defaultLogger.base), msg, fields)
}

// Info logs a message at info level on the default logger
func Info(msg string, fields map[string]interface{}) {
	defaultLogger.log(level.Info(defaultLogger.base), msg, fields)
}

// Warn logs a message at warn level on the default logger
func Warn(msg string, fields map[string]interface{}) {
	defaultLogger.log(level.Warn(defaultLogger.base), msg, fields)
}

// Error logs a message at error level on the default logger
func Error(msg string, fields map[string]interface{}) {
	defaultLogger.log(level.Error(defaultLogger.base), msg, fields)
}

// Fatal logs a fatal message on the default logger and terminates the program
func Fatal(msg string, fields map[string]interface{}) {
	defaultLogger.log(kitlog.With(level.Error(defaultLogger.base), "fatal", true), msg, fields)
	os.Exit(1)
}
