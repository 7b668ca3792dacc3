package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the service-level logger. HTTP access logs go through the fiber logger middleware instead.
var Log = logrus.New()

func InitLogger() {
	Log.SetOutput(os.Stdout)
	if strings.EqualFold(GetConfig("LOG_FORMAT"), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	level, err := logrus.ParseLevel(GetConfig("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
