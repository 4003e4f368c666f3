package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the service logger. Components take a child entry through
// Component so every line carries its origin.
func New(service, level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.AddHook(serviceHook(service))

	return log
}

// Component returns an entry tagged with the component name.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// Discard is a logger for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = string(h)
	return nil
}
