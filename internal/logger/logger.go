package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger writing to out.
//   - level: trace, debug, info, warn, error (anything else means info)
//   - format: "json" for machine output, "pretty" for a console writer
func Setup(level, format string, out io.Writer) zerolog.Logger {
	writer := out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}
