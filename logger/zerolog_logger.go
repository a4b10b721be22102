package logger

import (
	"github.com/rs/zerolog"
)

// ZerologLogger implements the [Logger] interface by delegating to a
// [zerolog.Logger]. The key-value pairs are attached to the event as fields.
type ZerologLogger struct {
	logger zerolog.Logger
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerologLogger returns a new [ZerologLogger].
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// Trace logs at the trace level.
func (l *ZerologLogger) Trace(msg string, args ...any) {
	l.log(l.logger.Trace(), msg, args)
}

// Debug logs at the debug level.
func (l *ZerologLogger) Debug(msg string, args ...any) {
	l.log(l.logger.Debug(), msg, args)
}

// Info logs at the info level.
func (l *ZerologLogger) Info(msg string, args ...any) {
	l.log(l.logger.Info(), msg, args)
}

// Warn logs at the warn level.
func (l *ZerologLogger) Warn(msg string, args ...any) {
	l.log(l.logger.Warn(), msg, args)
}

// Error logs at the error level.
func (l *ZerologLogger) Error(msg string, args ...any) {
	l.log(l.logger.Error(), msg, args)
}

// log sends the event; a nil event means the level is disabled.
func (l *ZerologLogger) log(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	if len(args) > 0 {
		e = e.Fields(args)
	}
	e.Msg(msg)
}

// ZerologLevel converts the level to the matching zerolog level.
func ZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelTrace:
		return zerolog.TraceLevel
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	case level <= LevelError:
		return zerolog.ErrorLevel
	}
	return zerolog.Disabled
}
