package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"tickbook/infra/config"
)

type Logger = zerolog.Logger

// NewLogger builds the process logger from the logging section of cfg.
// An unknown level falls back to info.
func NewLogger(cfg config.Config) Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.Config, out io.Writer) Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
