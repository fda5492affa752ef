package logging

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Logger is the leveled logging interface used throughout the module.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// Init configures the process-wide logger. Unknown levels fall back to
// info.
func Init(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	l, err := log.ParseLevel(level)
	if err != nil {
		l = log.InfoLevel
	}
	log.SetLevel(l)
}

func L() *log.Logger { return log.StandardLogger() }

// NewDefaultLogger returns the process-wide logger.
func NewDefaultLogger() Logger {
	return log.StandardLogger()
}

// Nop returns a logger that discards everything. Used as the library
// default so channel internals stay quiet unless a caller opts in.
func Nop() Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
