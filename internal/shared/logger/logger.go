package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes a new zerolog.Logger writing to stderr.
// 'devMode' enables human-readable console logging. An unknown level falls
// back to info.
func New(devMode bool, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, devMode, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(out io.Writer, devMode bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if devMode {
		// Human-readable, colorful output for local development
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
