package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// Log formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// JSONLogger emits logrus JSON entries. Verbose maps to the debug level.
type JSONLogger struct {
	entry *logrus.Entry
}

// NewJSONLogger creates a JSONLogger writing to out.
func NewJSONLogger(out io.Writer, verbose bool) *JSONLogger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &JSONLogger{entry: logrus.NewEntry(l).WithField("app", "aipx")}
}

// With returns a logger that adds key to every entry.
func (l *JSONLogger) With(key string, value interface{}) *JSONLogger {
	return &JSONLogger{entry: l.entry.WithField(key, value)}
}

func (l *JSONLogger) Verbose(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *JSONLogger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *JSONLogger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// New returns the logger for format, writing to stderr.
func New(format string, verbose bool) (aipx.Logger, error) {
	switch format {
	case "", FormatText:
		return NewConsoleLogger(verbose), nil
	case FormatJSON:
		return NewJSONLogger(os.Stderr, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s): %w", format, FormatText, FormatJSON, aipx.ErrInvalidConfig)
	}
}

var (
	_ aipx.Logger = (*ConsoleLogger)(nil)
	_ aipx.Logger = (*JSONLogger)(nil)
	_ aipx.Logger = (*NullLogger)(nil)
)
