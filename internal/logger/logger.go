// Package logger provides structured logging using zerolog.
//
// Output goes to stderr: stdout is reserved for the live display and for
// raw-mode numeric output.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Initialize("info")
}

// Initialize sets up the global logger with the specified level.
func Initialize(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	log = zerolog.New(output).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info logs an info message.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs a fatal message and exits.
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}
