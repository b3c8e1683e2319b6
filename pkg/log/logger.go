// Package log provides structured logging for Bago machine learning operations.
//
// The package wraps github.com/rs/zerolog behind a small setup API so that
// library code can emit structured events (operation, data shape, timings)
// without caring about the configured sink. It also bridges the warning
// system in pkg/errors onto zerolog, so UndefinedMetricWarning and friends
// show up as structured warn-level events once logging is configured.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(io.Discard)
)

// Setup configures the package logger to write JSON events to stderr at the
// given level and routes pkg/errors warnings through it.
func Setup(level string) {
	SetupWithWriter(level, os.Stderr)
}

// SetupWithWriter is Setup with an explicit destination. Tests use it to
// capture output.
func SetupWithWriter(level string, w io.Writer) {
	l := zerolog.New(w).Level(ToLogLevel(level)).With().Timestamp().Logger()

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()

	errors.SetZerologWarnFunc(func(warning error) {
		l := GetLogger()
		ev := l.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("warning")
			return
		}
		ev.Err(warning).Msg("warning")
	})
}

// GetLogger returns the configured package logger.
// Before Setup is called, the returned logger discards everything.
func GetLogger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// GetLoggerWithName returns the package logger with a component field attached.
func GetLoggerWithName(name string) zerolog.Logger {
	return GetLogger().With().Str(ComponentKey, name).Logger()
}

// ToLogLevel converts a level string to a zerolog.Level.
func ToLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}
