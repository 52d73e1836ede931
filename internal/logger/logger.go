// Package logger configures the application's structured loggers.  Two
// logrus instances are exposed: InfoLogger for request-flow events and
// ErrorLogger for failures.  Both write JSON lines to rolling files via
// lumberjack and mirror to stdout so container logs stay useful.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// InfoLogger records normal operational events.
	InfoLogger = logrus.New()
	// ErrorLogger records failures worth alerting on.
	ErrorLogger = logrus.New()
)

// InitLoggers wires both loggers to rolling log files under logs/.
// Callers that never invoke InitLoggers (tests, tooling) still get
// working loggers printing to stderr with logrus defaults.
func InitLoggers() {
	configure(InfoLogger, "logs/info.log", logrus.InfoLevel)
	configure(ErrorLogger, "logs/error.log", logrus.ErrorLevel)
}

func configure(l *logrus.Logger, path string, level logrus.Level) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes per file
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(os.Stdout, rotator))
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(level)
}
