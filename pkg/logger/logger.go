package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"video-pipeline-service/pkg/config"
)

// Logger wraps logrus so call sites stay decoupled from the backend.
type Logger struct {
	entry *logrus.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewDefault()
)

// NewDefault returns a text logger at info level writing to stdout.
func NewDefault() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: l}
}

// NewLogger builds a logger from service configuration.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(resolveOutput(cfg))

	return &Logger{entry: l}
}

func resolveOutput(cfg *config.Config) io.Writer {
	if cfg.Log.Output != "file" || cfg.Log.Filename == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Filename), 0o755); err != nil {
		return os.Stdout
	}
	f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stdout
	}
	return f
}

// SetGlobalLogger replaces the process-wide logger. Call once during startup.
func SetGlobalLogger(l *Logger) {
	if l == nil {
		return
	}
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func (l *Logger) withFields(fields []map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 || fields[0] == nil {
		return logrus.NewEntry(l.entry)
	}
	return l.entry.WithFields(logrus.Fields(fields[0]))
}

// Debug logs at debug level with optional structured fields.
func Debug(msg string, fields ...map[string]interface{}) {
	global().withFields(fields).Debug(msg)
}

// Info logs at info level with optional structured fields.
func Info(msg string, fields ...map[string]interface{}) {
	global().withFields(fields).Info(msg)
}

// Warn logs at warn level with optional structured fields.
func Warn(msg string, fields ...map[string]interface{}) {
	global().withFields(fields).Warn(msg)
}

// Error logs at error level with optional structured fields.
func Error(msg string, fields ...map[string]interface{}) {
	global().withFields(fields).Error(msg)
}

// Fatal logs the message and exits the process.
func Fatal(msg string, fields ...map[string]interface{}) {
	global().withFields(fields).Fatal(msg)
}

func Debugf(format string, args ...interface{}) { global().entry.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { global().entry.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { global().entry.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { global().entry.Errorf(format, args...) }
