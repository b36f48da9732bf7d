// Package logging builds the zerolog logger used for diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error, disabled
	Format string // console or json
	Output io.Writer
}

// New creates a logger. Unknown levels and formats are rejected.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole:
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly})
	case FormatJSON:
		zl = zerolog.New(out)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (expected %s or %s)", cfg.Format, FormatConsole, FormatJSON)
	}

	return zl.Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
