package logger

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// SimpleLogger prefixes.
const (
	tracePrefix = "TRACE "
	debugPrefix = "DEBUG "
	infoPrefix  = "INFO "
	warnPrefix  = "WARN "
	errorPrefix = "ERROR "
)

// SimpleLogger implements the [Logger] interface on top of a standard
// library [log.Logger], rendering the key-value pairs as "key=value".
type SimpleLogger struct {
	mtx    sync.Mutex
	logger *log.Logger
	level  Level
}

var _ Logger = (*SimpleLogger)(nil)

// NewSimpleLogger returns a new [SimpleLogger].
func NewSimpleLogger(logger *log.Logger, level Level) *SimpleLogger {
	return &SimpleLogger{
		logger: logger,
		level:  level,
	}
}

// Trace logs at the trace level.
func (l *SimpleLogger) Trace(msg string, args ...any) {
	if l.enabled(LevelTrace) {
		l.output(tracePrefix, msg, args)
	}
}

// Debug logs at the debug level.
func (l *SimpleLogger) Debug(msg string, args ...any) {
	if l.enabled(LevelDebug) {
		l.output(debugPrefix, msg, args)
	}
}

// Info logs at the info level.
func (l *SimpleLogger) Info(msg string, args ...any) {
	if l.enabled(LevelInfo) {
		l.output(infoPrefix, msg, args)
	}
}

// Warn logs at the warn level.
func (l *SimpleLogger) Warn(msg string, args ...any) {
	if l.enabled(LevelWarn) {
		l.output(warnPrefix, msg, args)
	}
}

// Error logs at the error level.
func (l *SimpleLogger) Error(msg string, args ...any) {
	if l.enabled(LevelError) {
		l.output(errorPrefix, msg, args)
	}
}

// output writes the record with the level prefix. The prefix of the
// underlying logger is shared, so the pair of calls is serialized.
func (l *SimpleLogger) output(prefix, msg string, args []any) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.logger.SetPrefix(prefix)
	_ = l.logger.Output(3, formatMessage(msg, args))
}

// enabled reports whether the SimpleLogger handles records at the given level.
func (l *SimpleLogger) enabled(level Level) bool {
	return level >= l.level
}

func formatMessage(msg string, args []any) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "msg=%s", msg)

	n := len(args)
	for i := 0; i < n; i += 2 {
		if i+1 < n {
			_, _ = fmt.Fprintf(&b, ", %s=%v", args[i], args[i+1])
		} else {
			_, _ = fmt.Fprintf(&b, ", %v", args[i])
		}
	}

	return b.String()
}
