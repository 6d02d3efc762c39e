package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger writes text logs in development and JSON elsewhere. level
// overrides the env default (debug in development, info otherwise) when it
// parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl := logrus.InfoLevel
	if env == "development" {
		lvl = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if parsed, err := logrus.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	logger.SetLevel(lvl)

	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()}).Info("logger initialized")
	return logger
}

// NewDiscardLogger is for tests.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func withFields(logger *logrus.Logger, fields logrus.Fields, err error) *logrus.Entry {
	e := logger.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// LogError tolerates a nil logger so services can run without one.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger != nil {
		withFields(logger, fields, err).Error(msg)
	}
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	if logger != nil {
		withFields(logger, fields, nil).Info(msg)
	}
}
