// Package logging provides structured logging for hamarc using
// zerolog.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger *zerolog.Logger

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger = &l
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger. If debug is true, the level is
// Debug; otherwise Info. If pretty is true, output goes through a
// human-readable console writer instead of JSON lines.
func Init(debug bool, pretty bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var output zerolog.LevelWriter
	if pretty {
		output = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}}
	} else {
		output = zerolog.LevelWriterAdapter{Writer: os.Stderr}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	logger = &l
}

// L returns the base logger.
func L() *zerolog.Logger {
	return logger
}

// WithRun returns a logger with the run_id field set, for correlating
// every event emitted by a single ArchiveEngine operation invocation.
func WithRun(runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}

// SetLogger overrides the global logger. Used by tests that want to
// capture or silence log output.
func SetLogger(l zerolog.Logger) {
	logger = &l
}
