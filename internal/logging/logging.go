// Package logging is the process-wide diagnostic sink the codecs assume:
// three severities, printf-style formatting, no other collaborator
// dependency. It plays the role of _examples/original_source/src/logging.cpp's
// log/log_warn/log_error trio, backed by zerolog instead of stdout printf.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	NoColor:    true,
	TimeFormat: time.Kitchen,
}).With().Timestamp().Logger().Level(zerolog.InfoLevel)

// Options configures the package logger. The zero value gives info level,
// human-readable console output with color, to stderr.
type Options struct {
	Level     string // "debug", "info", "warn", "error", "disabled"
	JSON      bool
	NoColor   bool
	Out       io.Writer
}

// Configure replaces the package logger. cmd/shapeutil calls this once at
// startup with values parsed from internal/config.Cli. It also rebuilds the
// zerolog/log global logger and level, the way crazy-max-undock's
// internal/logging.Configure does, so that callers logging through
// github.com/rs/zerolog/log directly (as cmd/shapeutil's main does for its
// own top-level status lines) pick up the same level and format.
func Configure(opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return err
		}
		level = parsed
	}

	logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
	zlog.Logger = logger
	zerolog.SetGlobalLevel(level)
	return nil
}

// Info logs an informational message, printf-style. Used for progress
// notes and silently-handled edge cases (deleted rows, null shapes) that
// spec.md §7 explicitly says are not errors.
func Info(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

// Warn logs a warning, printf-style.
func Warn(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

// Error logs an error, printf-style. Callers still return a typed error;
// this is a diagnostic side effect, not the error-reporting mechanism.
func Error(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}
