// Package log wraps the shared application logger. All packages log through
// the package-level helpers so the level and format are set in one place.
package log

import (
	"strings"

	charmlog "github.com/charmbracelet/log"
)

var logger = charmlog.Default()

// Init configures the default logger. mode is one of "debug", "info",
// "warn", "error" or "none"; unknown values fall back to info.
func Init(mode string) {
	logger.SetTimeFormat("2006-01-02 15:04:05")

	switch strings.ToLower(mode) {
	case "debug":
		logger.SetLevel(charmlog.DebugLevel)
		logger.SetReportCaller(true)
	case "", "info":
		logger.SetLevel(charmlog.InfoLevel)
	case "warn":
		logger.SetLevel(charmlog.WarnLevel)
	case "error":
		logger.SetLevel(charmlog.ErrorLevel)
	case "none":
		logger.SetLevel(charmlog.FatalLevel)
	default:
		logger.SetLevel(charmlog.InfoLevel)
		logger.Warnf("Unknown log mode %q, using info level", mode)
	}
}

// Default exposes the underlying logger for callers that need to attach
// prefixes or redirect output (tests, the TUI).
func Default() *charmlog.Logger {
	return logger
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}
