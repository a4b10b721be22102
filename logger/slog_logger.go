package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// SlogLogger implements the [Logger] interface on top of a [slog.Logger].
// Records carry the source position of the scheduler call site rather than
// this adapter. Trace maps to slog.Level(LevelTrace), which is Debug-4; pass
// [ReplaceLevelAttr] in [slog.HandlerOptions] to render it as "TRACE".
type SlogLogger struct {
	ctx    context.Context
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger returns a new [SlogLogger] that logs with ctx.
// It panics if the logger is nil.
func NewSlogLogger(ctx context.Context, logger *slog.Logger) *SlogLogger {
	if logger == nil {
		panic("nil logger")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &SlogLogger{ctx: ctx, logger: logger}
}

// With returns a logger that adds the key-value args to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{ctx: l.ctx, logger: l.logger.With(args...)}
}

func (l *SlogLogger) Trace(msg string, args ...any) { l.log(SlogLevel(LevelTrace), msg, args) }
func (l *SlogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *SlogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *SlogLogger) log(level slog.Level, msg string, args []any) {
	if !l.logger.Enabled(l.ctx, level) {
		return
	}

	// skip runtime.Callers, log and the level method
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.logger.Handler().Handle(l.ctx, r)
}

// SlogLevel converts the level to its slog counterpart. The numeric values
// are shared, so LevelOff is above slog.LevelError.
func SlogLevel(level Level) slog.Level {
	return slog.Level(level)
}

// ReplaceLevelAttr is a [slog.HandlerOptions] ReplaceAttr function that
// names the trace level.
func ReplaceLevelAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == SlogLevel(LevelTrace) {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}
