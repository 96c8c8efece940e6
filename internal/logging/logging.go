// Package logging configures the zerolog logger shared by the launcher's
// commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// VerbosityLevel maps a -v count to a level: 0 warn, 1 info, 2 debug,
// 3 or more trace.
func VerbosityLevel(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for bundle-log-viewer based on
// verbosity. Output goes to w (os.Stderr when nil).
func SetupLogger(verbosity int, w io.Writer) {
	setup(VerbosityLevel(verbosity), w)

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// SetupWrapperLogger configures the global logger for the run-time wrapper
// from a level name such as "warn" or "debug". An unknown name falls back to
// warn and is reported as an error.
func SetupWrapperLogger(levelName string, w io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName)))
	if err != nil || level == zerolog.NoLevel {
		setup(zerolog.WarnLevel, w)
		return fmt.Errorf("unknown log level %q", levelName)
	}

	setup(level, w)
	return nil
}

func setup(level zerolog.Level, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(level)

	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}

	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	// Add caller information for debug and trace levels
	if level <= zerolog.DebugLevel {
		log.Logger = log.Logger.With().Caller().Logger()
	}
}

// isTerminal reports whether w is a terminal, including Cygwin and MSYS
// ptys on Windows.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
