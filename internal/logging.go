package internal

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// log is the package logger; commands configure it through SetupLogging.
var log = logrus.StandardLogger()

// SetupLogging applies DEVPORTAL_LOG_LEVEL (default info) and a text formatter.
func SetupLogging(level string) {
	if level == "" { level = os.Getenv("DEVPORTAL_LOG_LEVEL") }
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil { lvl = logrus.InfoLevel }
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Logger exposes the package logger to commands.
func Logger() *logrus.Logger { return log }
