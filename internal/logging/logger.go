package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger provides leveled logging with ISO 8601 timestamps and an optional component name
type Logger struct {
	*log.Logger
	level LogLevel
	name  string
}

// LogLevel represents the logging level
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// New creates a new logger with ISO 8601 timestamp format
func New(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	return &Logger{
		Logger: log.New(output, "", 0), // No flags, we'll format ourselves
		level:  level,
	}
}

// NewFromConfig creates a logger from configuration
func NewFromConfig(levelStr string, outputPath string) (*Logger, error) {
	level := ParseLevel(levelStr)

	var output io.Writer
	switch outputPath {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", outputPath, err)
		}
		output = file
	}

	return New(level, output), nil
}

// Discard returns a logger that drops every message
func Discard() *Logger {
	return New(ErrorLevel+1, io.Discard)
}

// Named returns a logger sharing the same output whose messages are prefixed with the component name
func (l *Logger) Named(name string) *Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &Logger{
		Logger: l.Logger,
		level:  l.level,
		name:   full,
	}
}

// Level returns the minimum level written by the logger
func (l *Logger) Level() LogLevel {
	return l.level
}

// formatMessage formats a log message with ISO 8601 timestamp
func (l *Logger) formatMessage(level string, msg string) string {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if l.name != "" {
		return timestamp + " [" + level + "] " + l.name + ": " + msg
	}
	return timestamp + " [" + level + "] " + msg
}

func (l *Logger) write(level LogLevel, tag string, msg string) {
	if l.level <= level {
		l.Logger.Println(l.formatMessage(tag, msg))
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.write(DebugLevel, "DEBUG", msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level <= DebugLevel {
		l.write(DebugLevel, "DEBUG", fmt.Sprintf(format, args...))
	}
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.write(InfoLevel, "INFO", msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level <= InfoLevel {
		l.write(InfoLevel, "INFO", fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.write(WarnLevel, "WARN", msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.level <= WarnLevel {
		l.write(WarnLevel, "WARN", fmt.Sprintf(format, args...))
	}
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.write(ErrorLevel, "ERROR", msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level <= ErrorLevel {
		l.write(ErrorLevel, "ERROR", fmt.Sprintf(format, args...))
	}
}

// Fatalf logs a formatted fatal message and exits
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.Logger.Println(l.formatMessage("FATAL", fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// ParseLevel parses a log level string, falling back to info
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
