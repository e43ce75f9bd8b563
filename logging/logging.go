// Package logging provides the logrus loggers shared by harpadeck packages.
//
// Every package gets its own zone logger:
//
//	var logger = logging.ZoneLogger("harpadeck/metadata")
//
// All zones write through the same *logrus.Logger, so SetLevel on any of
// them (or on Logger) changes the level everywhere.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the root logger.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// ZoneLogger returns a logger that tags every entry with zone=name.
func ZoneLogger(name string) *logrus.Entry {
	return Logger.WithField("zone", name)
}

// SetVerbose switches the root logger between info and debug level.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}
