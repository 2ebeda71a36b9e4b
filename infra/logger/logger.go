package logger

import corelogger "github.com/aguerin/carnet/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. The output format is
// selected through the APP_ENV environment variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// NewWithLevel returns a Logger for the given component restricted to the
// configured minimum level.
func NewWithLevel(component, level string) Logger {
	l := NewZerologLogger(component)
	if zl, ok := l.(*ZerologLogger); ok {
		return zl.WithLevel(level)
	}
	return l
}
