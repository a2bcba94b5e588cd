package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ServiceName tags every log entry.
const ServiceName = "eye-diagnosis-api"

// New builds a logrus logger writing to out. Unknown levels fall back to info.
// format is "json" (default) or "text".
func New(out io.Writer, level, format string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(out)

	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log.WithField("service", ServiceName)
}
