// Package logging provides the logger interface abstraction
// and implementation used by chainlens.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Tracef(format string, args ...interface{})
	Trace(args ...interface{})
	Debugf(format string, args ...interface{})
	Debug(args ...interface{})
	Infof(format string, args ...interface{})
	Info(args ...interface{})
	Warningf(format string, args ...interface{})
	Warning(args ...interface{})
	Errorf(format string, args ...interface{})
	Error(args ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	WriterLevel(logrus.Level) *io.PipeWriter
	NewEntry() *logrus.Entry
}

type logger struct {
	*logrus.Logger
}

func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	return &logger{Logger: l}
}

func (l *logger) NewEntry() *logrus.Entry {
	return logrus.NewEntry(l.Logger)
}

// ParseVerbosity maps a verbosity flag value to a logger writing to w.
func ParseVerbosity(w io.Writer, verbosity string) (Logger, error) {
	switch strings.ToLower(verbosity) {
	case "0", "silent":
		return New(io.Discard, 0), nil
	case "1", "error":
		return New(w, logrus.ErrorLevel), nil
	case "2", "warn":
		return New(w, logrus.WarnLevel), nil
	case "3", "info":
		return New(w, logrus.InfoLevel), nil
	case "4", "debug":
		return New(w, logrus.DebugLevel), nil
	case "5", "trace":
		return New(w, logrus.TraceLevel), nil
	default:
		return nil, fmt.Errorf("unknown verbosity level %q", verbosity)
	}
}

var defaultLogger = New(os.Stderr, logrus.InfoLevel)

// SetDefault replaces the logger behind the package level helpers.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

func Default() Logger {
	return defaultLogger
}

func Tracef(format string, args ...interface{}) {
	defaultLogger.Tracef(format, args...)
}

func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

func Warningf(format string, args ...interface{}) {
	defaultLogger.Warningf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}
