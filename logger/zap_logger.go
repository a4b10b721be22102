package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the [Logger] interface by delegating to a
// [zap.SugaredLogger]. Zap has no trace level, trace records are written
// at the debug level.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger returns a new [ZapLogger].
// It will panic if the logger is nil.
func NewZapLogger(logger *zap.SugaredLogger) *ZapLogger {
	if logger == nil {
		panic("nil logger")
	}
	return &ZapLogger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

// Trace logs at the debug level.
func (l *ZapLogger) Trace(msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

// Debug logs at the debug level.
func (l *ZapLogger) Debug(msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

// Info logs at the info level.
func (l *ZapLogger) Info(msg string, args ...any) {
	l.logger.Infow(msg, args...)
}

// Warn logs at the warn level.
func (l *ZapLogger) Warn(msg string, args ...any) {
	l.logger.Warnw(msg, args...)
}

// Error logs at the error level.
func (l *ZapLogger) Error(msg string, args ...any) {
	l.logger.Errorw(msg, args...)
}

// ZapLevel converts the level to the matching zap level.
func ZapLevel(level Level) zapcore.Level {
	switch {
	case level <= LevelDebug:
		return zapcore.DebugLevel
	case level <= LevelInfo:
		return zapcore.InfoLevel
	case level <= LevelWarn:
		return zapcore.WarnLevel
	case level <= LevelError:
		return zapcore.ErrorLevel
	}
	return zapcore.InvalidLevel
}
