// Package observability provides the shared structured logger.
package observability

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a configured logger instance. The level comes from
// LOG_LEVEL (debug, info, warn, error); bad or missing values mean info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logLevel())
	return logger
}

// NewLoggerWithComponent creates a logger tagged with a component field.
func NewLoggerWithComponent(component string) *logrus.Entry {
	return NewLogger().WithField("component", component)
}

func logLevel() logrus.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
