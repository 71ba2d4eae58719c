package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var logOnce sync.Once

type pkgLogger struct {
	*log.Logger
}

var logSingleton *pkgLogger

func getLogger() *pkgLogger {
	logOnce.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "assets",
		})
		if os.Getenv("OXY_ASSETS_DEBUG") != "" {
			l.SetLevel(log.DebugLevel)
		}
		logSingleton = &pkgLogger{l}
	})
	return logSingleton
}

// SetLogLevel adjusts the verbosity of the package logger.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error"
func SetLogLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		getLogger().Warnf("unknown log level %q", level)
		return
	}
	getLogger().SetLevel(parsed)
}

// LogDebug logs a formatted debug message.
func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

// LogInfo logs a formatted informational message.
func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

// LogWarn logs a formatted warning.
func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

// LogError logs a formatted error message.
func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}
