package logger

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

// stdout carries reports, so logs always go to stderr
var stderr io.Writer = os.Stderr

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	Configure(os.Getenv("LOG_LEVEL"), false)
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Configure sets the global logger. verbose forces debug level.
func Configure(level string, verbose bool) {
	lvl := ParseLevel(level)
	if verbose && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log.Logger = zerolog.New(newConsoleWriter(stderr)).With().Timestamp().Logger()
}

func newConsoleWriter(out io.Writer, options ...func(w *zerolog.ConsoleWriter)) zerolog.ConsoleWriter {
	isTerminal := false
	if f, ok := out.(*os.File); ok {
		isTerminal = isatty.IsTerminal(f.Fd())
	}

	defaults := func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05 |"
		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}
		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}
	return zerolog.NewConsoleWriter(append([]func(w *zerolog.ConsoleWriter){defaults}, options...)...)
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging routes log output through the test's logger
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(zerolog.NewConsoleWriter(zerolog.ConsoleTestWriter(t))).With().Timestamp().Logger()
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
}
