package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

const FormatJSON = "json"

// New builds a leveled logger writing to out. Any format other than "json"
// produces human readable console output. Unknown levels fall back to info.
func New(level string, format string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
