// Package logging configures the global zerolog logger for the binaries.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a configured level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// Setup points the global logger at a console writer on w. In stdio mode stdout
// carries the protocol, so logging is switched off unless level is debug.
func Setup(w io.Writer, level string, stdio bool) {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})

	lvl := ParseLevel(level)
	if stdio && lvl != zerolog.DebugLevel {
		lvl = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(lvl)
}
