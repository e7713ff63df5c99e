package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger for the configured level and format.
func NewLogger(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "fleetcost").
		Logger()
}
