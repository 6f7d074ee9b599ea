package logs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. An unknown level falls back to info and verbose
// always means debug.
func Setup(level string, verbose bool) zerolog.Logger {
	return SetupWriter(os.Stderr, level, verbose)
}

func SetupWriter(out io.Writer, level string, verbose bool) zerolog.Logger {
	lvl := ParseLevel(level)
	if verbose {
		lvl = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	log.Logger = logger
	return logger
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "critical":
		return zerolog.FatalLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
