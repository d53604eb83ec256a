// Package logging provides the zerolog logger used for diagnostics.
//
// User-facing output (reports, summaries) is written by the output package;
// this logger only carries warnings, debug traces and server access logs on stderr.
//
//	log := logging.FromContext(ctx)
//	log.Warn().Str("branch", branch).Msg("dropping commit with invalid date")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger zerolog.Logger

func init() {
	defaultLogger = createDefaultLogger(os.Stderr)
}

func createDefaultLogger(out *os.File) zerolog.Logger {
	var writer io.Writer = out
	if isTerminal(out) && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := LevelFromEnv()
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New creates a logger writing JSON lines to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetVerbose lowers the default logger to debug level.
func SetVerbose(verbose bool) {
	if !verbose {
		return
	}
	defaultLogger = defaultLogger.Level(zerolog.DebugLevel).With().Caller().Logger()
}

// LevelFromEnv reads LOG_LEVEL, falling back to debug when DEBUG is set and
// warn otherwise. A CLI should stay quiet unless asked.
func LevelFromEnv() zerolog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"), os.Getenv("DEBUG") != "")
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(name string, debug bool) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		if debug {
			return zerolog.DebugLevel
		}
		return zerolog.WarnLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
