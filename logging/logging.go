// Package logging configures the process-wide zerolog logger and hands
// out per-component child loggers, the way other_examples/.../polybot's
// executor wires github.com/rs/zerolog/log: a global sink with Str/Int
// chained fields, no %v-formatted messages.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global logger's level and output. level is one of
// "debug", "info", "warn", "error" (case-insensitive); anything else
// falls back to "info".
func Init(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(parseLevel(level))
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
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

// Component returns a child logger tagged with component=name, the unit
// every package in this module logs through rather than touching the
// global logger directly.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
