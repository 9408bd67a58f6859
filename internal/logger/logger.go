package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow logging surface the pipeline components depend on.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a text-formatted logger for interactive use.
func New() Logger {
	return newWithFormatter(&logrus.TextFormatter{})
}

// NewLambda returns a JSON-formatted logger suitable for CloudWatch log
// ingestion, honoring LOG_LEVEL when set.
func NewLambda() Logger {
	return newWithFormatter(&logrus.JSONFormatter{})
}

func newWithFormatter(formatter logrus.Formatter) Logger {
	log := logrus.New()
	log.SetFormatter(formatter)

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	return &logrusLogger{entry: logrus.NewEntry(log)}
}

func (l *logrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields)}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return &logrusLogger{entry: logrus.NewEntry(log)}
}
