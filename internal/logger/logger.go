// Package logger provides the process-wide structured logger backed by
// zerolog. Initialise once from main, retrieve anywhere with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	instance zerolog.Logger
	once     sync.Once
)

// Init builds the singleton logger. Only the first call has any effect.
// Pretty output suits a desktop app run from a terminal; pass pretty=false
// to emit plain JSON lines instead.
func Init(level string, pretty bool, out io.Writer) zerolog.Logger {
	once.Do(func() {
		if out == nil {
			out = os.Stderr
		}
		if pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(level)
		zerolog.SetGlobalLevel(lvl)
		instance = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	})
	return instance
}

// Get returns the singleton logger. Falls back to a default stderr logger
// when Init has not run yet, so library tests never have to call Init.
func Get() zerolog.Logger {
	once.Do(func() {
		instance = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
	return instance
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
