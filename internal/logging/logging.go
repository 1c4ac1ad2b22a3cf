// Package logging configures the service's zerolog output: a readable
// console writer, an optional JSON file sink, and a runtime-adjustable level.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

type Config struct {
	Level   string
	Console bool
	File    FileConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
}

// New builds the root logger and returns a closer for the file sink.
//
// The logger itself is created unleveled; the effective level is the global
// zerolog level, so SetLevel can raise or lower verbosity at runtime without
// swapping loggers held by other packages.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.ErrorFieldName = "err"
	SetLevel(cfg.Level)

	writers := make([]io.Writer, 0, 2)
	closer := func() error { return nil }

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat})
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			path = "./streamalert.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, zerolog.SyncWriter(f))
		closer = f.Close
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return logger, closer, nil
}

// SetLevel applies a level string globally. Unknown strings fall back to info.
func SetLevel(s string) {
	zerolog.SetGlobalLevel(ParseLevel(s))
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
