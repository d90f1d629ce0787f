package logging

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// HandlerFunc is a plain net/http handler that reports failure instead of
// logging it itself.
type HandlerFunc func(http.ResponseWriter, *http.Request, *LogData) error

// LoggingWrapper adapts handler for routes served outside huma, such as
// /status, with the same Start/Complete/Error lines HumaMiddleware writes.
func LoggingWrapper(loggingName string, log *logrus.Logger, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("method", req.Method)
		logData.AddData("path", req.URL.Path)
		log.Debugf("Handler.%s.Start", loggingName)

		stopTimer := logData.AddTiming("duration")
		err := handler(w, req.WithContext(WithLogData(req.Context(), logData)), logData)
		stopTimer()

		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%s.Error", loggingName)
			return
		}
		logData.Log().Infof("Handler.%s.Complete", loggingName)
	}
}
