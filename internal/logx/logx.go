// Package logx provides structured logging for the cmd driver and the
// pipeline orchestrator. Built on zerolog rather than the
// standard library's log/slog, matching the rest of the domain stack's
// preference for an ecosystem logger over a hand-rolled wrapper.
package logx

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/kestrelbyte/minecore/internal/config"
)

// Logger wraps zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

// New creates a Logger from the given LoggingConfig.
func New(cfg config.LoggingConfig) *Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var writer zerolog.ConsoleWriter
	var zl zerolog.Logger
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: os.Stdout}
		zl = zerolog.New(writer).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return &Logger{logger: zl}
}

// With returns a child logger carrying the given key/value pair.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	event(l.logger.Debug(), fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	event(l.logger.Info(), fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	event(l.logger.Warn(), fields).Msg(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	event(l.logger.Error().Err(err), fields).Msg(msg)
}

func event(e *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

var defaultLogger = New(config.LoggingConfig{Level: "info", Format: "json"})

// Default returns the package-level logger used by components that do not
// take an explicit Logger (e.g. pipeline.New when given a nil logger).
func Default() *Logger {
	return defaultLogger
}

// SetDefault overrides the package-level default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}
