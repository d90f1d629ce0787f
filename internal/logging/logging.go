package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// SetupLogging returns the JSON logger shared by the API, the operator and
// the CLI. Commands lower the level once config is loaded.
func SetupLogging() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyLevel: "loglevel",
		},
	})
	return logger
}
