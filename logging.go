package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// setupLogging sets the global level and returns the root logger. console
// selects human-readable output instead of JSON lines.
func setupLogging(level string, console bool) zerolog.Logger {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "TRACE":
		lvl = zerolog.TraceLevel
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "INFO":
		lvl = zerolog.InfoLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var out io.Writer = os.Stdout
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
