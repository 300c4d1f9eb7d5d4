// Package utils holds the shared logging helpers used by the analysis
// binaries and services.
package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger for console output. The
// LOG_LEVEL environment variable (debug, info, warn, error) overrides the
// default level.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// LogInfo logs pipeline progress with structured fields
func LogInfo(msg string, fields map[string]interface{}) {
	emit(log.Info(), msg, fields)
}

// LogWarn logs a recoverable condition, such as a weather outage or a
// failed temp-file removal.
func LogWarn(msg string, fields map[string]interface{}) {
	emit(log.Warn(), msg, fields)
}

// LogError logs a failure with its cause and structured fields
func LogError(msg string, err error, fields map[string]interface{}) {
	emit(log.Error().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
