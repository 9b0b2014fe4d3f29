package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger adapts zerolog to bootloader.Logger.
type zerologLogger struct {
	log zerolog.Logger
}

func newLogger(w io.Writer, debug bool) *zerologLogger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &zerologLogger{
		log: zerolog.New(output).Level(level).With().Timestamp().Str("app", "ubaboot").Logger(),
	}
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}
