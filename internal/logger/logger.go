package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"tasktracker/internal/config"
)

// New builds the application logger. Local runs get a human readable console
// writer, everything else writes JSON lines.
func New(env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	zerolog.TimestampFieldName = "timestamp"

	level := zerolog.InfoLevel
	switch env {
	case config.EnvLocal:
		level = zerolog.TraceLevel
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	case config.EnvDev:
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}
