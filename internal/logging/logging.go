// Package logging provides zerolog-based structured logging for the Lambda handlers.
//
// Output is always JSON on stderr so that CloudWatch picks up one event per line.
// The level comes from LOG_LEVEL (default info).
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the function/service name.
func New(service string) zerolog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
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
