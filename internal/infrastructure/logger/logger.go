package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Output always goes to stderr
// because stdout carries the MCP stdio channel and the CLI results.
func Init(level, format string) {
	InitWithWriter(os.Stderr, level, format)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(out io.Writer, level, format string) {
	lvl := parseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	var writer io.Writer = out
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(writer).
		With().
		Timestamp().
		Str("service", "searxng-tools").
		Logger().
		Level(lvl)
}

func parseLevel(raw string) zerolog.Level {
	if strings.TrimSpace(raw) == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
